package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/config"
	"github.com/i474232898/climate-scenario-dashboard/internal/dashboard"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/narrative"
	"github.com/i474232898/climate-scenario-dashboard/internal/observability"
	"github.com/i474232898/climate-scenario-dashboard/internal/remote"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
	"github.com/i474232898/climate-scenario-dashboard/internal/store"
	"github.com/i474232898/climate-scenario-dashboard/internal/summary"
)

// bootstrap loads the datasets and the catalog and builds the dashboard
// service. A dataset failure is returned as is and ends the process.
func bootstrap(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, metrics *observability.Metrics) (*dashboard.Service, error) {
	// Shared HTTP client for dataset and boundary downloads.
	fetcher := remote.NewFetcher(&http.Client{Timeout: cfg.DatasetFetchTimeout})

	loadCtx, cancel := context.WithTimeout(ctx, cfg.DatasetFetchTimeout)
	defer cancel()

	start := time.Now()
	loader := store.NewLoader(fetcher, clockwork.NewRealClock())
	ds, err := loader.Load(loadCtx,
		store.Source{Metric: climate.MetricTemperature, Location: cfg.TempCSV, ValueColumn: cfg.TempValueColumn},
		store.Source{Metric: climate.MetricPrecipitation, Location: cfg.PrecipCSV, ValueColumn: cfg.PrecipValueColumn},
	)
	if err != nil {
		return nil, err
	}
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	for _, m := range climate.Metrics {
		metrics.DatasetRows.WithLabelValues(string(m)).Set(float64(len(ds.Rows(m))))
	}

	mem := store.NewMemoryStore()
	if err := mem.Put(ds); err != nil {
		return nil, err
	}
	logger.Info("datasets loaded",
		"temperature_rows", len(ds.Temperature),
		"precipitation_rows", len(ds.Precipitation),
		"regions", len(mem.Regions()),
	)

	cat, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	opts := dashboard.DefaultOptions()
	opts.Selection = selection.Options{Scenarios: cat.Scenarios, NarrowOnStep: cfg.NarrowOnStep}
	opts.DefaultFocus = cfg.DefaultFocus
	opts.Ranges = map[climate.Metric]render.ValueRange{
		climate.MetricTemperature:   cfg.TempRange,
		climate.MetricPrecipitation: cfg.PrecipRange,
	}
	opts.Animate = cfg.Animate
	opts.RecentWindowYear = cfg.RecentWindowYear
	opts.MarkerStepYears = cfg.MarkerStepYears
	opts.Summary = summary.Options{
		TempSpan:   cfg.TempFullScale,
		PrecipSpan: cfg.PrecipFullScale,
		Threshold:  cfg.TrendThreshold,
	}
	opts.Story = narrative.Story{Steps: cat.Steps, Offset: cfg.ScrollOffset}
	opts.AutoplayStep = cfg.AutoplayStep
	opts.Map.Mode = cfg.MapMode

	proj := geo.Equirectangular{Width: opts.Map.Width, Height: opts.Map.Height}
	opts.Catalog = cat.Regions
	if cfg.GeocoderAPIKey != "" {
		opts.Catalog = geo.Complete(cat.Regions, mem.Regions(), geo.NewGoogleGeocoder(cfg.GeocoderAPIKey), proj, logger)
	}
	if cfg.MapMode == geo.ModeGeo && cfg.GeoBoundaryURL != "" {
		outlines, err := geo.LoadOutlines(ctx, fetcher, cfg.GeoBoundaryURL, proj)
		if err != nil {
			// The dot markers still work without outlines.
			logger.Warn("boundary outlines not loaded", "url", cfg.GeoBoundaryURL, "error", err)
		} else {
			opts.Map.Outlines = outlines
		}
	}

	return dashboard.NewService(mem, opts, logger, metrics)
}
