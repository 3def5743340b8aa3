package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
)

type AppConfig struct {
	// Dataset sources: a file path or an http(s) URL.
	TempCSV             string
	PrecipCSV           string
	TempValueColumn     string
	PrecipValueColumn   string
	DatasetFetchTimeout time.Duration

	// Fixed value-axis ranges.
	TempRange   render.ValueRange
	PrecipRange render.ValueRange

	RecentWindowYear int // 0 disables the shaded window
	MarkerStepYears  int // 0 keeps every marker
	Animate          bool

	// Impact panel normalisation.
	TempFullScale   float64
	PrecipFullScale float64
	TrendThreshold  float64

	DefaultFocus climate.Scenario
	NarrowOnStep bool
	ScrollOffset float64

	AutoplayInterval time.Duration
	AutoplayStep     int

	MapMode        geo.Mode
	GeoBoundaryURL string
	GeocoderAPIKey string
	CatalogFile    string

	Port            string
	LogLevel        string
	LogFormat       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment (and a .env file when present)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.TempCSV = getenvDefault("TEMP_CSV", "data/temp_df.csv")
	cfg.PrecipCSV = getenvDefault("PRECIP_CSV", "data/precip_df.csv")
	cfg.TempValueColumn = getenvDefault("TEMP_VALUE_COLUMN", "tas_C")
	cfg.PrecipValueColumn = getenvDefault("PRECIP_VALUE_COLUMN", "pr_day")
	if cfg.DatasetFetchTimeout, err = getenvDuration("DATASET_FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	if cfg.TempRange, err = getenvRange("TEMP_RANGE", "4,30"); err != nil {
		return nil, err
	}
	if cfg.PrecipRange, err = getenvRange("PRECIP_RANGE", "1.6,4"); err != nil {
		return nil, err
	}
	if cfg.RecentWindowYear, err = getenvInt("RECENT_WINDOW_YEAR", 2000); err != nil {
		return nil, err
	}
	if cfg.MarkerStepYears, err = getenvInt("MARKER_STEP_YEARS", 0); err != nil {
		return nil, err
	}
	if cfg.Animate, err = getenvBool("CHART_ANIMATE", true); err != nil {
		return nil, err
	}

	if cfg.TempFullScale, err = getenvFloat("TEMP_FULL_SCALE", 6); err != nil {
		return nil, err
	}
	if cfg.PrecipFullScale, err = getenvFloat("PRECIP_FULL_SCALE", 40); err != nil {
		return nil, err
	}
	if cfg.TrendThreshold, err = getenvFloat("TREND_THRESHOLD", climate.DefaultTrendThreshold); err != nil {
		return nil, err
	}

	cfg.DefaultFocus = climate.Scenario(os.Getenv("DEFAULT_FOCUS"))
	if cfg.NarrowOnStep, err = getenvBool("NARRATIVE_NARROW", true); err != nil {
		return nil, err
	}
	if cfg.ScrollOffset, err = getenvFloat("SCROLL_OFFSET", 0.6); err != nil {
		return nil, err
	}
	if cfg.ScrollOffset <= 0 || cfg.ScrollOffset > 1 {
		return nil, fmt.Errorf("invalid SCROLL_OFFSET: %v not in (0, 1]", cfg.ScrollOffset)
	}

	if cfg.AutoplayInterval, err = getenvDuration("AUTOPLAY_INTERVAL", "1200ms"); err != nil {
		return nil, err
	}
	if cfg.AutoplayStep, err = getenvInt("AUTOPLAY_STEP", 5); err != nil {
		return nil, err
	}
	if cfg.AutoplayStep <= 0 {
		return nil, fmt.Errorf("invalid AUTOPLAY_STEP: must be positive")
	}

	cfg.MapMode = geo.Mode(getenvDefault("MAP_MODE", string(geo.ModeDots)))
	if cfg.MapMode != geo.ModeDots && cfg.MapMode != geo.ModeGeo {
		return nil, fmt.Errorf("invalid MAP_MODE: %q", cfg.MapMode)
	}
	cfg.GeoBoundaryURL = os.Getenv("GEO_BOUNDARY_URL")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.CatalogFile = os.Getenv("CATALOG_FILE")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")
	if cfg.ReadTimeout, err = getenvDuration("HTTP_READ_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getenvDuration("HTTP_WRITE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getenvRange parses "min,max".
func getenvRange(key, def string) (render.ValueRange, error) {
	parts := strings.Split(getenvDefault(key, def), ",")
	if len(parts) != 2 {
		return render.ValueRange{}, fmt.Errorf("invalid %s: want min,max", key)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return render.ValueRange{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return render.ValueRange{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	if hi <= lo {
		return render.ValueRange{}, fmt.Errorf("invalid %s: max must exceed min", key)
	}
	return render.ValueRange{Min: lo, Max: hi}, nil
}
