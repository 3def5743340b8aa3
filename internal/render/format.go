package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// FormatFixed formats v with the given number of decimals. Halves round away
// from zero (2.5 -> "3", 0.25 -> "0.3"); strconv alone would round them to even.
func FormatFixed(v float64, decimals int) string {
	p := math.Pow10(decimals)
	return strconv.FormatFloat(math.Round(v*p)/p, 'f', decimals, 64)
}

// FormatValue formats a raw observation value for tooltips.
func FormatValue(v float64) string {
	return FormatFixed(v, 2)
}

// FormatTempDelta formats a temperature change with one decimal.
func FormatTempDelta(v float64) string {
	return FormatFixed(v, 1)
}

// FormatPercentDelta formats a percent change with no decimals and an explicit
// sign for non-negative values.
func FormatPercentDelta(v float64) string {
	s := FormatFixed(v, 0)
	if v >= 0 {
		return "+" + s
	}
	return s
}

// Tooltip is the hover text for a point marker.
func Tooltip(o climate.Observation, value float64) string {
	return fmt.Sprintf("%s\nYear: %d\nValue: %s", o.Scenario.Label(), o.Year, FormatValue(value))
}
