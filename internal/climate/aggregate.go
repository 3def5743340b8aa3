package climate

import (
	"errors"
	"math"
	"sort"
)

// ErrInsufficientData is returned when a delta is requested for an empty series.
var ErrInsufficientData = errors.New("insufficient data for delta")

// FilterSeries returns the rows for region whose scenario is in scenarios,
// restricted to year <= cutoff when cutoff is non-zero, sorted by timestamp.
// An empty result is valid and means there is nothing to show.
func FilterSeries(rows []Observation, region string, scenarios []Scenario, cutoff int) []Observation {
	wanted := make(map[Scenario]struct{}, len(scenarios))
	for _, s := range scenarios {
		wanted[s] = struct{}{}
	}

	out := make([]Observation, 0)
	for _, r := range rows {
		if r.Region != region {
			continue
		}
		if _, ok := wanted[r.Scenario]; !ok {
			continue
		}
		if cutoff != 0 && r.Year > cutoff {
			continue
		}
		out = append(out, r)
	}

	// Source files are ordered already, but nothing guarantees it.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// ScenarioSeries is the part of a series that belongs to one scenario.
type ScenarioSeries struct {
	Scenario     Scenario
	Observations []Observation
}

// GroupByScenario partitions series per scenario. Groups appear in the order
// their scenario is first seen, which drives legend and colour order.
func GroupByScenario(series []Observation) []ScenarioSeries {
	index := make(map[Scenario]int)
	var groups []ScenarioSeries
	for _, o := range series {
		i, ok := index[o.Scenario]
		if !ok {
			i = len(groups)
			index[o.Scenario] = i
			groups = append(groups, ScenarioSeries{Scenario: o.Scenario})
		}
		groups[i].Observations = append(groups[i].Observations, o)
	}
	return groups
}

// Delta summarises the change between the first and last value of a series.
type Delta struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Absolute  float64 `json:"absolute"`
	Percent   float64 `json:"percent"`
	StartYear int     `json:"startYear"`
	EndYear   int     `json:"endYear"`
}

// ComputeDelta compares the first and last observation of a single-scenario,
// single-region series sorted by year. Percent is defined as 0 when the first
// value is 0.
func ComputeDelta(series []Observation) (Delta, error) {
	if len(series) < 1 {
		return Delta{}, ErrInsufficientData
	}

	first := series[0]
	last := series[len(series)-1]

	d := Delta{
		Start:     first.Value,
		End:       last.Value,
		Absolute:  last.Value - first.Value,
		StartYear: first.Year,
		EndYear:   last.Year,
	}
	if first.Value != 0 {
		d.Percent = (last.Value - first.Value) / first.Value * 100
	}
	return d, nil
}

// Trend is the qualitative reading of a percent change.
type Trend string

const (
	TrendWetter  Trend = "wetter"
	TrendDrier   Trend = "drier"
	TrendSimilar Trend = "similar"
)

// DefaultTrendThreshold is the ±percent band treated as noise.
const DefaultTrendThreshold = 3.0

// Classify maps a percent change onto a Trend using a symmetric noise band.
func Classify(percent, threshold float64) Trend {
	switch {
	case percent > threshold:
		return TrendWetter
	case percent < -threshold:
		return TrendDrier
	default:
		return TrendSimilar
	}
}

// Regions returns the distinct regions in rows, sorted.
func Regions(rows []Observation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	sort.Strings(out)
	return out
}

// YearBounds returns the smallest and largest year in rows. ok is false for
// an empty slice.
func YearBounds(rows []Observation) (minYear, maxYear int, ok bool) {
	if len(rows) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = math.MaxInt, math.MinInt
	for _, r := range rows {
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear, true
}
