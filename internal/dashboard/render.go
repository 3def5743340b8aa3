package dashboard

import (
	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/narrative"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
	"github.com/i474232898/climate-scenario-dashboard/internal/summary"
)

// Options are the render settings shared by every selection.
type Options struct {
	Selection    selection.Options
	DefaultFocus climate.Scenario

	Ranges           map[climate.Metric]render.ValueRange
	Animate          bool
	RecentWindowYear int
	MarkerStepYears  int

	Summary summary.Options
	Catalog geo.Catalog
	Map     geo.Options
	Story   narrative.Story

	AutoplayStep int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		Selection: selection.Options{Scenarios: climate.KnownScenarios, NarrowOnStep: true},
		Ranges: map[climate.Metric]render.ValueRange{
			climate.MetricTemperature:   {Min: 4, Max: 30},
			climate.MetricPrecipitation: {Min: 1.6, Max: 4},
		},
		RecentWindowYear: 2000,
		Summary:          summary.DefaultOptions(),
		Catalog:          geo.DefaultCatalog(),
		Map:              geo.DefaultOptions(),
		Story:            narrative.DefaultStory(),
		AutoplayStep:     5,
	}
}

// Chart is one rendered metric chart.
type Chart struct {
	Metric climate.Metric `json:"metric"`
	Scene  *render.Scene  `json:"scene"`
}

// StepView is a narrative step with its active flag.
type StepView struct {
	narrative.Step
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// RenderResult is everything the page shows for one selection.
type RenderResult struct {
	State     selection.State    `json:"state"`
	Scenarios []climate.Scenario `json:"scenarios"`
	Charts    []Chart            `json:"charts"`
	Map       geo.MapView        `json:"map"`
	Impact    summary.Panel      `json:"impact"`
	Steps     []StepView         `json:"steps"`
	Regions   []string           `json:"regions"`
	YearMin   int                `json:"yearMin"`
	YearMax   int                `json:"yearMax"`
	Autoplay  bool               `json:"autoplay"`
	// Rejected is set when the event that produced this result was refused
	// and the previous selection kept.
	Rejected bool `json:"rejected"`
}

// Chart returns the chart of metric, if rendered.
func (r RenderResult) Chart(m climate.Metric) (Chart, bool) {
	for _, c := range r.Charts {
		if c.Metric == m {
			return c, true
		}
	}
	return Chart{}, false
}

// ChartConfig builds the renderer input for metric under state.
func ChartConfig(ds *climate.Dataset, st selection.State, m climate.Metric, opts Options) render.ChartConfig {
	mode := render.ModeMulti
	if st.Step != selection.NoStep && opts.Selection.NarrowOnStep {
		mode = render.ModeSingle
	}
	return render.ChartConfig{
		Target:           string(m) + "-chart",
		Rows:             climate.FilterSeries(ds.Rows(m), st.Region, st.Active, st.YearCutoff),
		Label:            m.AxisLabel(),
		Domain:           opts.Ranges[m],
		Mode:             mode,
		Animate:          opts.Animate,
		RecentWindowYear: opts.RecentWindowYear,
		MarkerStepYears:  opts.MarkerStepYears,
	}
}

// OnSelectionChanged renders the dashboard for st. It depends only on its
// arguments.
func OnSelectionChanged(ds *climate.Dataset, regions []string, st selection.State, opts Options) RenderResult {
	res := RenderResult{
		State:     st,
		Scenarios: opts.Selection.Scenarios,
		Regions:   regions,
		Charts:    make([]Chart, 0, len(climate.Metrics)),
	}

	for _, m := range climate.Metrics {
		res.Charts = append(res.Charts, Chart{Metric: m, Scene: render.RenderChart(ChartConfig(ds, st, m, opts))})
	}

	focus := []climate.Scenario{st.Focus}
	temp := climate.FilterSeries(ds.Rows(climate.MetricTemperature), st.Region, focus, st.YearCutoff)
	precip := climate.FilterSeries(ds.Rows(climate.MetricPrecipitation), st.Region, focus, st.YearCutoff)
	res.Impact = summary.Build(temp, precip, st.Region, st.Focus, opts.Summary)

	res.Map = geo.BuildMap(opts.Catalog, regions, st.Region, opts.Map)

	res.Steps = make([]StepView, 0, len(opts.Story.Steps))
	for i, step := range opts.Story.Steps {
		res.Steps = append(res.Steps, StepView{Step: step, Index: i, Active: i == st.Step})
	}

	for _, m := range climate.Metrics {
		if lo, hi, ok := climate.YearBounds(ds.Rows(m)); ok {
			res.YearMin, res.YearMax = lo, hi
			break
		}
	}
	return res
}
