package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// exportGroups applies the filtering rules shared by the exporters.
func exportGroups(cfg ChartConfig) ([]climate.ScenarioSeries, error) {
	if len(cfg.Rows) == 0 {
		return nil, ErrEmptySelection
	}
	groups := climate.GroupByScenario(cfg.Rows)
	if cfg.Mode == ModeSingle {
		groups = groups[:1]
	}
	return groups, nil
}

// WritePNG renders cfg as a static PNG image.
func WritePNG(w io.Writer, cfg ChartConfig) error {
	groups, err := exportGroups(cfg)
	if err != nil {
		return err
	}
	l := cfg.layout()

	series := make([]chart.Series, 0, len(groups))
	for _, g := range groups {
		xs := make([]time.Time, 0, len(g.Observations))
		ys := make([]float64, 0, len(g.Observations))
		for _, o := range g.Observations {
			xs = append(xs, o.Time)
			ys = append(ys, cfg.value(o))
		}
		// go-chart needs two x values to build a range.
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}
		color := drawing.ColorFromHex(strings.TrimPrefix(ScenarioColor(g.Scenario), "#"))
		series = append(series, chart.TimeSeries{
			Name:    g.Scenario.Label(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    markerRadius,
			},
		})
	}

	graph := chart.Chart{
		Title:  cfg.Label,
		Width:  int(l.Width * 2),
		Height: int(l.Height * 2),
		Background: chart.Style{Padding: chart.Box{
			Top:    int(l.Margin.Top),
			Right:  int(l.Margin.Right),
			Bottom: int(l.Margin.Bottom),
			Left:   int(l.Margin.Left),
		}},
		XAxis: chart.XAxis{
			Name:           "Year",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006"),
		},
		YAxis: chart.YAxis{
			Name:  cfg.Label,
			Range: &chart.ContinuousRange{Min: cfg.Domain.Min, Max: cfg.Domain.Max},
		},
		Series: series,
	}
	if cfg.Mode != ModeSingle {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// WriteInteractive renders cfg as a self-contained HTML page with hover tooltips.
func WriteInteractive(w io.Writer, cfg ChartConfig) error {
	groups, err := exportGroups(cfg)
	if err != nil {
		return err
	}
	l := cfg.layout()

	// Scenarios may not share timestamps, so the category axis is their union.
	seen := make(map[string]bool)
	var labels []string
	for _, g := range groups {
		for _, o := range g.Observations {
			label := o.Time.Format(climate.TimeLayout)
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: cfg.Label,
			Width:     fmt.Sprintf("%dpx", int(l.Width*2)),
			Height:    fmt.Sprintf("%dpx", int(l.Height*2)),
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: cfg.Mode != ModeSingle, Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.Label, Min: cfg.Domain.Min, Max: cfg.Domain.Max}),
	)
	line.SetXAxis(labels)

	for _, g := range groups {
		byLabel := make(map[string]float64, len(g.Observations))
		for _, o := range g.Observations {
			byLabel[o.Time.Format(climate.TimeLayout)] = cfg.value(o)
		}
		data := make([]opts.LineData, 0, len(labels))
		for _, label := range labels {
			v, ok := byLabel[label]
			if !ok {
				// echarts treats "-" as a gap.
				data = append(data, opts.LineData{Value: "-"})
				continue
			}
			data = append(data, opts.LineData{Value: FormatValue(v)})
		}
		color := ScenarioColor(g.Scenario)
		line.AddSeries(g.Scenario.Label(), data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render interactive chart: %w", err)
	}
	return nil
}
