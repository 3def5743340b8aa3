package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/config"
	"github.com/i474232898/climate-scenario-dashboard/internal/observability"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

var (
	renderMetric    string
	renderFormat    string
	renderRegion    string
	renderScenarios []string
	renderYear      int
	renderStep      int
	renderOutput    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one chart to a file",
	Long: `Render a chart for a single selection without starting the server.

Examples:
  climate-dashboard render --metric temperature --region Europe -o europe.svg
  climate-dashboard render --metric precipitation --scenario ssp126 --scenario ssp585 --format png -o precip.png
  climate-dashboard render --step 1 --format html -o story.html`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderMetric, "metric", "temperature", "Chart metric: temperature or precipitation")
	renderCmd.Flags().StringVar(&renderFormat, "format", "svg", "Output format: svg, png or html")
	renderCmd.Flags().StringVar(&renderRegion, "region", "", "Region to show (default: Global)")
	renderCmd.Flags().StringSliceVar(&renderScenarios, "scenario", nil, "Scenarios to show (default: all)")
	renderCmd.Flags().IntVar(&renderYear, "year", 0, "Show years up to this one (default: all)")
	renderCmd.Flags().IntVar(&renderStep, "step", selection.NoStep, "Narrative step to enter")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	m, ok := climate.ParseMetric(renderMetric)
	if !ok {
		return fmt.Errorf("unknown metric %q", renderMetric)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr so that stdout carries only the chart.
	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel, "text")
	metrics := observability.NewMetrics()

	ctx := cmd.Context()
	svc, err := bootstrap(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}

	var events []selection.Event
	if renderRegion != "" {
		events = append(events, selection.RegionSelected{Region: renderRegion})
	}
	if len(renderScenarios) > 0 {
		set := make([]climate.Scenario, 0, len(renderScenarios))
		for _, s := range renderScenarios {
			set = append(set, climate.Scenario(s))
		}
		events = append(events, selection.ScenariosSet{Scenarios: set})
	}
	if renderYear != 0 {
		events = append(events, selection.YearCutoffSet{Year: renderYear})
	}
	for _, ev := range events {
		if _, err := svc.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	if renderStep != selection.NoStep {
		if _, err := svc.EnterStep(ctx, renderStep); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	chart := svc.ChartConfig(m)
	switch renderFormat {
	case "svg":
		err = render.WriteSVG(&buf, render.RenderChart(chart))
	case "png":
		err = render.WritePNG(&buf, chart)
	case "html":
		err = render.WriteInteractive(&buf, chart)
	default:
		return fmt.Errorf("unknown format %q", renderFormat)
	}
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	_, err = buf.WriteTo(out)
	return err
}
