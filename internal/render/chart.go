package render

import (
	"errors"
	"math"
	"time"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// ErrEmptySelection is returned by exporters that cannot draw an empty selection.
var ErrEmptySelection = errors.New("no data for this selection")

// Placeholder is the text shown in place of an empty chart.
const Placeholder = "No data for this selection."

// Mode selects how many scenario lines a chart draws.
type Mode string

const (
	// ModeMulti draws one line per scenario present in the rows.
	ModeMulti Mode = "multi"
	// ModeSingle draws only the first scenario group, without a legend.
	ModeSingle Mode = "single"
)

// ValueRange is the fixed value-axis domain of a chart.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Margin is the space around the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout is the chart surface size.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// DefaultLayout matches the dashboard's chart cards.
var DefaultLayout = Layout{
	Width:  360,
	Height: 260,
	Margin: Margin{Top: 35, Right: 18, Bottom: 40, Left: 55},
}

const (
	tickCount    = 5
	markerRadius = 3
)

// ChartConfig describes one chart render.
type ChartConfig struct {
	Target string
	Rows   []climate.Observation
	// Value selects the plotted field. Nil plots Observation.Value.
	Value  func(climate.Observation) float64
	Label  string
	Domain ValueRange
	Mode   Mode

	Animate bool
	// RecentWindowYear shades the axis from January 1st of that year to the
	// end of the data. Zero disables the window.
	RecentWindowYear int
	// MarkerStepYears keeps one marker per step of that many years. Zero keeps all markers.
	MarkerStepYears int
	// Layout defaults to DefaultLayout when zero.
	Layout Layout
}

func (c ChartConfig) value(o climate.Observation) float64 {
	if c.Value == nil {
		return o.Value
	}
	return c.Value(o)
}

func (c ChartConfig) layout() Layout {
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return DefaultLayout
	}
	return c.Layout
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Text is a positioned label.
type Text struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Body   string  `json:"body"`
	Anchor string  `json:"anchor,omitempty"`
	Rotate float64 `json:"rotate,omitempty"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Polyline is the line of one scenario.
type Polyline struct {
	Scenario climate.Scenario `json:"scenario"`
	Color    string           `json:"color"`
	Points   []Point          `json:"points"`
	// Length is the path length used by the draw-in animation.
	Length float64 `json:"length"`
}

// Marker is a hoverable point on a line.
type Marker struct {
	Scenario climate.Scenario `json:"scenario"`
	Color    string           `json:"color"`
	Center   Point            `json:"center"`
	Radius   float64          `json:"radius"`
	Year     int              `json:"year"`
	Value    float64          `json:"value"`
	Tooltip  string           `json:"tooltip"`
}

// LegendItem is one legend entry.
type LegendItem struct {
	Scenario climate.Scenario `json:"scenario"`
	Label    string           `json:"label"`
	Color    string           `json:"color"`
}

// Scene is the drawable result of one chart render. It owns all its slices, so
// rendering the same config twice yields two equal, independent scenes.
type Scene struct {
	Target  string `json:"target"`
	Layout  Layout `json:"layout"`
	Empty   bool   `json:"empty"`
	Animate bool   `json:"animate"`

	// Placeholder is set only for empty scenes.
	Placeholder *Text `json:"placeholder,omitempty"`

	XDomain [2]time.Time `json:"xDomain"`
	YDomain ValueRange   `json:"yDomain"`
	XTicks  []Tick       `json:"xTicks"`
	YTicks  []Tick       `json:"yTicks"`
	XTitle  *Text        `json:"xTitle,omitempty"`
	YTitle  *Text        `json:"yTitle,omitempty"`

	Window  *Rect        `json:"window,omitempty"`
	Lines   []Polyline   `json:"lines"`
	Markers []Marker     `json:"markers"`
	Legend  []LegendItem `json:"legend"`
}

// RenderChart maps rows to a scene. It never fails: empty rows produce the
// placeholder scene.
func RenderChart(cfg ChartConfig) *Scene {
	l := cfg.layout()
	scene := &Scene{
		Target:  cfg.Target,
		Layout:  l,
		YDomain: cfg.Domain,
		Animate: cfg.Animate,
		Lines:   []Polyline{},
		Markers: []Marker{},
		Legend:  []LegendItem{},
	}

	if len(cfg.Rows) == 0 {
		scene.Empty = true
		scene.Placeholder = &Text{X: l.Width / 2, Y: l.Height / 2, Body: Placeholder, Anchor: "middle"}
		return scene
	}

	groups := climate.GroupByScenario(cfg.Rows)
	if cfg.Mode == ModeSingle {
		groups = groups[:1]
	}

	lo, hi := timeExtent(groups)
	scene.XDomain = [2]time.Time{lo, hi}

	x := TimeScale{Domain: scene.XDomain, Range: [2]float64{l.Margin.Left, l.Width - l.Margin.Right}}
	y := LinearScale{
		Domain: [2]float64{cfg.Domain.Min, cfg.Domain.Max},
		Range:  [2]float64{l.Height - l.Margin.Bottom, l.Margin.Top},
	}

	scene.XTicks = yearTicks(x, tickCount)
	scene.YTicks = valueTicks(y, tickCount)
	scene.XTitle = &Text{X: l.Width / 2, Y: l.Height - 6, Body: "Year", Anchor: "middle"}
	scene.YTitle = &Text{X: -l.Height / 2, Y: 14, Body: cfg.Label, Anchor: "middle", Rotate: -90}

	scene.Window = recentWindow(x, l, cfg.RecentWindowYear)

	for _, g := range groups {
		color := ScenarioColor(g.Scenario)
		line := Polyline{Scenario: g.Scenario, Color: color, Points: make([]Point, 0, len(g.Observations))}

		lastBucket := -1
		for _, o := range g.Observations {
			v := cfg.value(o)
			p := Point{X: x.Map(o.Time), Y: y.Map(v)}
			line.Points = append(line.Points, p)

			if cfg.MarkerStepYears > 0 {
				bucket := (o.Year - g.Observations[0].Year) / cfg.MarkerStepYears
				if bucket == lastBucket {
					continue
				}
				lastBucket = bucket
			}
			scene.Markers = append(scene.Markers, Marker{
				Scenario: g.Scenario,
				Color:    color,
				Center:   p,
				Radius:   markerRadius,
				Year:     o.Year,
				Value:    v,
				Tooltip:  Tooltip(o, v),
			})
		}
		line.Length = pathLength(line.Points)
		scene.Lines = append(scene.Lines, line)
	}

	if cfg.Mode != ModeSingle {
		for _, g := range groups {
			scene.Legend = append(scene.Legend, LegendItem{
				Scenario: g.Scenario,
				Label:    g.Scenario.Label(),
				Color:    ScenarioColor(g.Scenario),
			})
		}
	}
	return scene
}

func timeExtent(groups []climate.ScenarioSeries) (time.Time, time.Time) {
	var lo, hi time.Time
	first := true
	for _, g := range groups {
		for _, o := range g.Observations {
			if first || o.Time.Before(lo) {
				lo = o.Time
			}
			if first || o.Time.After(hi) {
				hi = o.Time
			}
			first = false
		}
	}
	return lo, hi
}

func recentWindow(x TimeScale, l Layout, year int) *Rect {
	if year == 0 {
		return nil
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if start.After(x.Domain[1]) {
		return nil
	}
	if start.Before(x.Domain[0]) {
		start = x.Domain[0]
	}
	x0 := x.Map(start)
	x1 := x.Map(x.Domain[1])
	return &Rect{
		X:      x0,
		Y:      l.Margin.Top,
		Width:  math.Max(0, x1-x0),
		Height: l.Height - l.Margin.Bottom - l.Margin.Top,
	}
}

func pathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
	}
	return total
}
