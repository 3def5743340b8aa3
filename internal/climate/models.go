package climate

import (
	"time"
)

// TimeLayout is the textual timestamp format used by the source CSV files.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultRegion is always present in the datasets and selected at startup.
const DefaultRegion = "Global"

// Scenario identifies an emissions pathway.
type Scenario string

const (
	ScenarioLow          Scenario = "ssp126"
	ScenarioIntermediate Scenario = "ssp245"
	ScenarioHigh         Scenario = "ssp370"
	ScenarioVeryHigh     Scenario = "ssp585"
)

// KnownScenarios lists the scenarios in canonical display order.
var KnownScenarios = []Scenario{
	ScenarioLow,
	ScenarioIntermediate,
	ScenarioHigh,
	ScenarioVeryHigh,
}

var scenarioLabels = map[Scenario]string{
	ScenarioLow:          "SSP1-2.6 (low emissions)",
	ScenarioIntermediate: "SSP2-4.5 (intermediate)",
	ScenarioHigh:         "SSP3-7.0 (high, uneven action)",
	ScenarioVeryHigh:     "SSP5-8.5 (fossil-fuel intensive)",
}

// Label returns the human readable name of the scenario. Unknown scenarios
// are labelled with their identifier.
func (s Scenario) Label() string {
	if l, ok := scenarioLabels[s]; ok {
		return l
	}
	return string(s)
}

// Known reports whether s is one of the standard pathways.
func (s Scenario) Known() bool {
	_, ok := scenarioLabels[s]
	return ok
}

// Metric selects which of the two datasets a series comes from.
type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricPrecipitation Metric = "precipitation"
)

// Metrics lists both metrics in display order.
var Metrics = []Metric{MetricTemperature, MetricPrecipitation}

// ParseMetric accepts the metric name or its short form.
func ParseMetric(s string) (Metric, bool) {
	switch s {
	case "temperature", "temp":
		return MetricTemperature, true
	case "precipitation", "precip":
		return MetricPrecipitation, true
	default:
		return "", false
	}
}

// Unit returns the measurement unit of the metric.
func (m Metric) Unit() string {
	if m == MetricTemperature {
		return "°C"
	}
	return "mm/day"
}

// AxisLabel returns the value-axis title used on charts.
func (m Metric) AxisLabel() string {
	if m == MetricTemperature {
		return "Temperature (°C)"
	}
	return "Precipitation (mm/day)"
}

// Observation is one CSV row: a single value for a scenario and region at a point in time.
type Observation struct {
	Time     time.Time `json:"time"`
	Year     int       `json:"year"`
	Scenario Scenario  `json:"scenario"`
	Region   string    `json:"region"`
	Value    float64   `json:"value"`
}

// Dataset holds both parsed row sets. It is never mutated after loading.
type Dataset struct {
	Temperature   []Observation
	Precipitation []Observation
	LoadedAt      time.Time
}

// Rows returns the row set for the given metric.
func (d *Dataset) Rows(m Metric) []Observation {
	if d == nil {
		return nil
	}
	if m == MetricTemperature {
		return d.Temperature
	}
	return d.Precipitation
}
