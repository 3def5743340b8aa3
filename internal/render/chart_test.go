package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

var tempRange = ValueRange{Min: 4, Max: 30}

func obs(year int, scenario climate.Scenario, region string, value float64) climate.Observation {
	return climate.Observation{
		Time:     time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Year:     year,
		Scenario: scenario,
		Region:   region,
		Value:    value,
	}
}

func fixture() []climate.Observation {
	return []climate.Observation{
		obs(1990, climate.ScenarioVeryHigh, "Global", 14.0),
		obs(1990, climate.ScenarioLow, "Global", 14.0),
		obs(2000, climate.ScenarioVeryHigh, "Global", 14.4),
		obs(2000, climate.ScenarioLow, "Global", 14.2),
		obs(2050, climate.ScenarioVeryHigh, "Global", 16.2),
		obs(2050, climate.ScenarioLow, "Global", 15.0),
		obs(2100, climate.ScenarioVeryHigh, "Global", 18.9),
		obs(2100, climate.ScenarioLow, "Global", 15.2),
		obs(2000, climate.ScenarioLow, "Europe", 10.0),
		obs(2100, climate.ScenarioLow, "Europe", 12.5),
	}
}

func config(rows []climate.Observation) ChartConfig {
	return ChartConfig{
		Target: "temp-chart",
		Rows:   rows,
		Label:  climate.MetricTemperature.AxisLabel(),
		Domain: tempRange,
		Mode:   ModeMulti,
	}
}

func TestRenderChart_Idempotent(t *testing.T) {
	rows := climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0)
	cfg := config(rows)

	first := RenderChart(cfg)
	second := RenderChart(cfg)
	assert.Equal(t, first, second)
	assert.Len(t, second.Markers, 8)
	assert.Len(t, second.Lines, 2)

	var a, b bytes.Buffer
	require.NoError(t, WriteSVG(&a, first))
	require.NoError(t, WriteSVG(&b, second))
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, 8, strings.Count(a.String(), "<circle"))
}

func TestRenderChart_AxisInvariance(t *testing.T) {
	global := RenderChart(config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0)))
	europe := RenderChart(config(climate.FilterSeries(fixture(), "Europe", []climate.Scenario{climate.ScenarioLow}, 0)))

	assert.Equal(t, global.YTicks, europe.YTicks)
	require.NotEmpty(t, global.YTicks)
	assert.Equal(t, "5", global.YTicks[0].Label)
	assert.Equal(t, "30", global.YTicks[len(global.YTicks)-1].Label)

	// The same nominal value lands on the same pixel row.
	var g, e float64
	for _, m := range global.Markers {
		if m.Scenario == climate.ScenarioLow && m.Year == 2000 {
			g = m.Center.Y
		}
	}
	for _, m := range europe.Markers {
		if m.Year == 2000 {
			e = m.Center.Y
		}
	}
	scale := LinearScale{Domain: [2]float64{4, 30}, Range: [2]float64{220, 35}}
	assert.InDelta(t, scale.Map(14.2), g, 1e-9)
	assert.InDelta(t, scale.Map(10.0), e, 1e-9)
}

func TestRenderChart_EmptySelection(t *testing.T) {
	rows := climate.FilterSeries(fixture(), "Europe", []climate.Scenario{climate.ScenarioHigh}, 0)
	require.Empty(t, rows)

	scene := RenderChart(config(rows))
	assert.True(t, scene.Empty)
	require.NotNil(t, scene.Placeholder)
	assert.Equal(t, Placeholder, scene.Placeholder.Body)
	assert.Empty(t, scene.Lines)
	assert.Empty(t, scene.Markers)
	assert.Empty(t, scene.Legend)
	assert.Nil(t, scene.Window)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, scene))
	assert.Contains(t, buf.String(), Placeholder)
	assert.NotContains(t, buf.String(), "<path")
}

func TestRenderChart_LegendOnlyPresentScenarios(t *testing.T) {
	rows := climate.FilterSeries(fixture(), "Europe", climate.KnownScenarios, 0)
	scene := RenderChart(config(rows))

	require.Len(t, scene.Legend, 1)
	assert.Equal(t, climate.ScenarioLow, scene.Legend[0].Scenario)
	assert.Equal(t, climate.ScenarioLow.Label(), scene.Legend[0].Label)
}

func TestRenderChart_LegendFollowsGroupingOrder(t *testing.T) {
	rows := []climate.Observation{
		obs(2000, climate.ScenarioVeryHigh, "Global", 14),
		obs(2000, climate.ScenarioLow, "Global", 14),
	}
	scene := RenderChart(config(rows))

	require.Len(t, scene.Legend, 2)
	assert.Equal(t, climate.ScenarioVeryHigh, scene.Legend[0].Scenario)
	assert.Equal(t, ScenarioColor(climate.ScenarioVeryHigh), scene.Legend[0].Color)
}

func TestRenderChart_SingleMode(t *testing.T) {
	cfg := config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0))
	cfg.Mode = ModeSingle

	scene := RenderChart(cfg)
	require.Len(t, scene.Lines, 1)
	assert.Equal(t, climate.ScenarioVeryHigh, scene.Lines[0].Scenario)
	assert.Empty(t, scene.Legend)
}

func TestRenderChart_MarkerDecimation(t *testing.T) {
	var rows []climate.Observation
	for year := 2000; year < 2020; year++ {
		rows = append(rows, obs(year, climate.ScenarioLow, "Global", 14))
	}
	cfg := config(rows)
	cfg.MarkerStepYears = 5

	scene := RenderChart(cfg)
	require.Len(t, scene.Lines, 1)
	assert.Len(t, scene.Lines[0].Points, 20)

	var years []int
	for _, m := range scene.Markers {
		years = append(years, m.Year)
	}
	assert.Equal(t, []int{2000, 2005, 2010, 2015}, years)
}

func TestRenderChart_RecentWindow(t *testing.T) {
	rows := climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0)

	t.Run("starts at cutoff", func(t *testing.T) {
		cfg := config(rows)
		cfg.RecentWindowYear = 2000
		scene := RenderChart(cfg)
		require.NotNil(t, scene.Window)

		x := TimeScale{Domain: scene.XDomain, Range: [2]float64{55, 342}}
		assert.InDelta(t, x.Map(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), scene.Window.X, 1e-9)
		assert.InDelta(t, 342-scene.Window.X, scene.Window.Width, 1e-9)
	})

	t.Run("clamped to domain start", func(t *testing.T) {
		cfg := config(rows)
		cfg.RecentWindowYear = 1950
		scene := RenderChart(cfg)
		require.NotNil(t, scene.Window)
		assert.InDelta(t, 55, scene.Window.X, 1e-9)
	})

	t.Run("omitted after domain end", func(t *testing.T) {
		cfg := config(rows)
		cfg.RecentWindowYear = 2200
		assert.Nil(t, RenderChart(cfg).Window)
	})
}

func TestRenderChart_Tooltip(t *testing.T) {
	scene := RenderChart(config([]climate.Observation{obs(2050, climate.ScenarioVeryHigh, "Global", 16.2)}))

	require.Len(t, scene.Markers, 1)
	assert.Equal(t, "SSP5-8.5 (fossil-fuel intensive)\nYear: 2050\nValue: 16.20", scene.Markers[0].Tooltip)
}

func TestRenderChart_Animation(t *testing.T) {
	cfg := config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0))
	cfg.Animate = true

	scene := RenderChart(cfg)
	for _, line := range scene.Lines {
		assert.Greater(t, line.Length, 0.0)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, scene))
	assert.Contains(t, buf.String(), "stroke-dashoffset")
	assert.Contains(t, buf.String(), "@keyframes draw-in")
}

func TestRenderChart_YearTicks(t *testing.T) {
	scene := RenderChart(config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0)))

	var labels []string
	for _, tk := range scene.XTicks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"2000", "2020", "2040", "2060", "2080", "2100"}, labels)
}

func TestValueTicks_Decimals(t *testing.T) {
	ticks := valueTicks(LinearScale{Domain: [2]float64{1.6, 4}, Range: [2]float64{220, 35}}, tickCount)

	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"2.0", "2.5", "3.0", "3.5", "4.0"}, labels)
}

func TestScenarioColor_Stable(t *testing.T) {
	assert.Equal(t, "#1f77b4", ScenarioColor(climate.ScenarioLow))
	assert.Equal(t, "#d62728", ScenarioColor(climate.ScenarioVeryHigh))
	assert.Equal(t, ScenarioColor("ssp119"), ScenarioColor("ssp119"))
	assert.NotContains(t, category10[:4], ScenarioColor("ssp119"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "16.20", FormatValue(16.2))
	assert.Equal(t, "3.0", FormatTempDelta(3))
	assert.Equal(t, "+10", FormatPercentDelta(10.000001))
	assert.Equal(t, "+0", FormatPercentDelta(0))
	assert.Equal(t, "-4", FormatPercentDelta(-4.2))

	// Exact halves round away from zero.
	assert.Equal(t, "+3", FormatPercentDelta(2.5))
	assert.Equal(t, "+13", FormatPercentDelta(12.5))
	assert.Equal(t, "-3", FormatPercentDelta(-2.5))
	assert.Equal(t, "0.3", FormatTempDelta(0.25))
	assert.Equal(t, "-0.3", FormatTempDelta(-0.25))
	assert.Equal(t, "1.13", FormatValue(1.125))
}

func TestExporters_RejectEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePNG(&buf, config(nil)), ErrEmptySelection)
	assert.ErrorIs(t, WriteInteractive(&buf, config(nil)), ErrEmptySelection)
	assert.Zero(t, buf.Len())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0))))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, WritePNG(&buf, config([]climate.Observation{obs(2050, climate.ScenarioLow, "Global", 15)})))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestWriteInteractive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInteractive(&buf, config(climate.FilterSeries(fixture(), "Global", climate.KnownScenarios, 0))))

	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, climate.ScenarioVeryHigh.Label())
	assert.Contains(t, page, "#d62728")
}
