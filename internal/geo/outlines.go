package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Outline is one projected boundary shape.
type Outline struct {
	Name string `json:"name"`
	// Path is SVG path data.
	Path string `json:"path"`
}

// Fetcher opens a remote resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *geometry      `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadOutlines fetches a GeoJSON FeatureCollection and projects its Polygon
// and MultiPolygon features. Other geometry types are skipped.
func LoadOutlines(ctx context.Context, fetcher Fetcher, url string, proj Equirectangular) ([]Outline, error) {
	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	defer body.Close()

	return ParseOutlines(body, proj)
}

// ParseOutlines projects the polygons of a GeoJSON FeatureCollection.
func ParseOutlines(r io.Reader, proj Equirectangular) ([]Outline, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode geojson: unexpected type %q", fc.Type)
	}

	var outlines []Outline
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}

		var polygons [][][][]float64
		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			polygons = [][][][]float64{rings}
		case "MultiPolygon":
			if err := json.Unmarshal(f.Geometry.Coordinates, &polygons); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		default:
			continue
		}

		path := polygonPath(polygons, proj)
		if path == "" {
			continue
		}
		outlines = append(outlines, Outline{Name: featureName(f.Properties), Path: path})
	}
	return outlines, nil
}

func polygonPath(polygons [][][][]float64, proj Equirectangular) string {
	var b strings.Builder
	for _, rings := range polygons {
		for _, ring := range rings {
			n := 0
			for _, pos := range ring {
				if len(pos) < 2 {
					continue
				}
				x, y := proj.Project(pos[0], pos[1])
				if n == 0 {
					b.WriteString("M")
				} else {
					b.WriteString("L")
				}
				b.WriteString(num(x) + "," + num(y))
				n++
			}
			if n > 0 {
				b.WriteString("Z")
			}
		}
	}
	return b.String()
}

func featureName(props map[string]any) string {
	for _, key := range []string{"name", "NAME", "ADMIN", "admin"} {
		if s, ok := props[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
