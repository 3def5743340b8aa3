package summary

import (
	"fmt"
	"math"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
)

const (
	// Dash stands in for a missing readout.
	Dash = "–"
	// NoData replaces the impact text when a series is missing.
	NoData = "No data available for this combination yet."
)

// Options are the fixed normalisation constants of the panel.
type Options struct {
	// TempSpan is the temperature change in °C drawn as a full bar.
	TempSpan float64
	// PrecipSpan is the precipitation change in percent drawn as a full bar.
	PrecipSpan float64
	// Threshold is the ±percent band classified as similar.
	Threshold float64
}

// DefaultOptions returns the panel constants used when none are configured.
func DefaultOptions() Options {
	return Options{TempSpan: 6, PrecipSpan: 40, Threshold: climate.DefaultTrendThreshold}
}

// Panel is the rendered impact card.
type Panel struct {
	Region        string           `json:"region"`
	Scenario      climate.Scenario `json:"scenario"`
	ScenarioLabel string           `json:"scenarioLabel"`
	Available     bool             `json:"available"`

	TempDelta   string `json:"tempDelta"`
	PrecipDelta string `json:"precipDelta"`
	TempText    string `json:"tempText"`
	PrecipText  string `json:"precipText"`

	Trend climate.Trend `json:"trend,omitempty"`
	// Bar fills in [0, 1].
	TempBar   float64 `json:"tempBar"`
	PrecipBar float64 `json:"precipBar"`

	Temperature   *climate.Delta `json:"temperature,omitempty"`
	Precipitation *climate.Delta `json:"precipitation,omitempty"`
}

// Build summarises the temperature and precipitation series of one region and
// scenario. Both series must be sorted by year. If either is empty the panel
// carries placeholders and empty bars.
func Build(temp, precip []climate.Observation, region string, scenario climate.Scenario, opts Options) Panel {
	p := Panel{
		Region:        region,
		Scenario:      scenario,
		ScenarioLabel: Dash,
		TempDelta:     Dash,
		PrecipDelta:   Dash,
		TempText:      NoData,
	}

	td, err := climate.ComputeDelta(temp)
	if err != nil {
		return p
	}
	pd, err := climate.ComputeDelta(precip)
	if err != nil {
		return p
	}

	label := scenario.Label()
	trend := climate.Classify(pd.Percent, opts.Threshold)

	p.Available = true
	p.ScenarioLabel = label
	p.Temperature = &td
	p.Precipitation = &pd
	p.Trend = trend
	p.TempDelta = render.FormatTempDelta(td.Absolute)
	p.PrecipDelta = render.FormatPercentDelta(pd.Percent)
	p.TempText = fmt.Sprintf("%s in %s warms by about %s°C between the start and end of this record.",
		label, region, render.FormatTempDelta(td.Absolute))
	p.PrecipText = fmt.Sprintf("Average daily precipitation changes by roughly %s%% over the same period, making this region %s.",
		render.FormatFixed(pd.Percent, 0), trendPhrase(trend))
	p.TempBar = Fill(td.Absolute, opts.TempSpan)
	p.PrecipBar = Fill(pd.Percent, opts.PrecipSpan)
	return p
}

func trendPhrase(t climate.Trend) string {
	if t == climate.TrendSimilar {
		return "fairly similar on average"
	}
	return string(t)
}

// Fill is the bar fraction for delta against a full-scale span, clamped to [0, 1].
func Fill(delta, span float64) float64 {
	if span <= 0 {
		return 0
	}
	return math.Min(math.Abs(delta)/span, 1)
}
