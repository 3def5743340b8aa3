package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// Source describes where one metric's CSV comes from.
type Source struct {
	Metric      climate.Metric
	Location    string // file path or http(s) URL
	ValueColumn string // e.g. "tas_C" or "pr_day"
}

// Fetcher opens remote sources.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// LoadError reports a failed dataset load. It is terminal for the process.
type LoadError struct {
	Metric climate.Metric
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s dataset from %s: %v", e.Metric, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads the temperature and precipitation datasets.
type Loader struct {
	fetcher Fetcher
	clock   clockwork.Clock
}

// NewLoader creates a Loader. fetcher may be nil when every source is a local file.
func NewLoader(fetcher Fetcher, clock clockwork.Clock) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loader{fetcher: fetcher, clock: clock}
}

// Load reads both sources concurrently and joins them into a Dataset. Any
// failure fails the whole load.
func (l *Loader) Load(ctx context.Context, temperature, precipitation Source) (*climate.Dataset, error) {
	var (
		wg         sync.WaitGroup
		tempRows   []climate.Observation
		precipRows []climate.Observation
		tempErr    error
		precipErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tempRows, tempErr = l.loadSource(ctx, temperature)
	}()
	go func() {
		defer wg.Done()
		precipRows, precipErr = l.loadSource(ctx, precipitation)
	}()
	wg.Wait()

	if err := errors.Join(tempErr, precipErr); err != nil {
		return nil, err
	}

	return &climate.Dataset{
		Temperature:   tempRows,
		Precipitation: precipRows,
		LoadedAt:      l.clock.Now().UTC(),
	}, nil
}

func (l *Loader) loadSource(ctx context.Context, src Source) ([]climate.Observation, error) {
	rc, err := l.open(ctx, src.Location)
	if err != nil {
		return nil, &LoadError{Metric: src.Metric, Source: src.Location, Err: err}
	}
	defer rc.Close()

	rows, err := ParseCSV(rc, src.ValueColumn)
	if err != nil {
		return nil, &LoadError{Metric: src.Metric, Source: src.Location, Err: err}
	}
	return rows, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if l.fetcher == nil {
			return nil, errors.New("remote source configured without a fetcher")
		}
		return l.fetcher.Fetch(ctx, location)
	}
	return os.Open(location)
}

// ParseCSV parses rows with the columns time, scenario, region and valueColumn.
// Extra columns are ignored; column order is taken from the header.
func ParseCSV(r io.Reader, valueColumn string) ([]climate.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	cols := make(map[string]int, 4)
	for _, name := range []string{"time", "scenario", "region", valueColumn} {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[name] = i
	}

	var rows []climate.Observation
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := time.ParseInLocation(climate.TimeLayout, strings.TrimSpace(rec[cols["time"]]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time: %w", line, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[valueColumn]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, valueColumn, err)
		}

		rows = append(rows, climate.Observation{
			Time:     ts,
			Year:     ts.Year(),
			Scenario: climate.Scenario(strings.TrimSpace(rec[cols["scenario"]])),
			Region:   strings.TrimSpace(rec[cols["region"]]),
			Value:    value,
		})
	}
	return rows, nil
}
