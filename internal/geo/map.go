package geo

import (
	"net/url"
)

// Mode selects how markers are positioned.
type Mode string

const (
	// ModeDots uses the fixed catalog positions.
	ModeDots Mode = "dots"
	// ModeGeo projects marker coordinates with an equirectangular projection.
	ModeGeo Mode = "geo"
)

// Options control map rendering.
type Options struct {
	Mode         Mode
	Width        float64
	Height       float64
	Radius       float64
	ActiveRadius float64
	// LinkPrefix is prepended to the url-escaped region name to build marker links.
	LinkPrefix string
	Outlines   []Outline
}

// DefaultOptions returns the dot map used by the dashboard.
func DefaultOptions() Options {
	return Options{
		Mode:         ModeDots,
		Width:        800,
		Height:       400,
		Radius:       8,
		ActiveRadius: 11,
		LinkPrefix:   "/ui/region?region=",
	}
}

// MarkerView is a marker ready to draw.
type MarkerView struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Active bool    `json:"active"`
	Href   string  `json:"href"`
}

// MapView is the region selector for one selection.
type MapView struct {
	Mode     Mode         `json:"mode"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Markers  []MarkerView `json:"markers"`
	Outlines []Outline    `json:"outlines,omitempty"`
}

// BuildMap lays out the markers of catalog whose region is present in the data
// and highlights the selected one.
func BuildMap(catalog Catalog, present []string, selected string, opts Options) MapView {
	has := make(map[string]bool, len(present))
	for _, r := range present {
		has[r] = true
	}

	view := MapView{
		Mode:     opts.Mode,
		Width:    opts.Width,
		Height:   opts.Height,
		Markers:  []MarkerView{},
		Outlines: opts.Outlines,
	}
	proj := Equirectangular{Width: opts.Width, Height: opts.Height}

	for _, m := range catalog {
		if !has[m.Name] {
			continue
		}
		x, y := m.X, m.Y
		if opts.Mode == ModeGeo && m.HasCoordinates() {
			x, y = proj.Project(*m.Lon, *m.Lat)
		}
		mv := MarkerView{
			Name:   m.Name,
			X:      x,
			Y:      y,
			Radius: opts.Radius,
			Href:   opts.LinkPrefix + url.QueryEscape(m.Name),
		}
		if m.Name == selected {
			mv.Active = true
			mv.Radius = opts.ActiveRadius
		}
		view.Markers = append(view.Markers, mv)
	}
	return view
}
