package store

import (
	"errors"
	"sync"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

var (
	// ErrNotLoaded is returned when the dataset has not been loaded yet.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrAlreadyLoaded is returned when a second dataset is offered to the store.
	ErrAlreadyLoaded = errors.New("dataset already loaded")
)

// MemoryStore holds the dataset in memory. It accepts exactly one dataset and
// serves it read-only afterwards.
type MemoryStore struct {
	mu      sync.RWMutex
	dataset *climate.Dataset
	regions []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put stores the loaded dataset. It can only be called once.
func (s *MemoryStore) Put(ds *climate.Dataset) error {
	if ds == nil {
		return errors.New("nil dataset")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset != nil {
		return ErrAlreadyLoaded
	}
	s.dataset = ds
	s.regions = climate.Regions(append(append([]climate.Observation(nil), ds.Temperature...), ds.Precipitation...))
	return nil
}

// Dataset returns the loaded dataset.
func (s *MemoryStore) Dataset() (*climate.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNotLoaded
	}
	return s.dataset, nil
}

// Regions returns the sorted union of regions across both metrics.
func (s *MemoryStore) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.regions...)
}

// HasRegion reports whether region appears in either dataset.
func (s *MemoryStore) HasRegion(region string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regions {
		if r == region {
			return true
		}
	}
	return false
}

// Series returns the filtered, time-ordered rows for metric.
func (s *MemoryStore) Series(m climate.Metric, region string, scenarios []climate.Scenario, cutoff int) ([]climate.Observation, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return climate.FilterSeries(ds.Rows(m), region, scenarios, cutoff), nil
}

// YearBounds returns the year span of the temperature dataset, falling back to
// precipitation when temperature is empty.
func (s *MemoryStore) YearBounds() (minYear, maxYear int, err error) {
	ds, err := s.Dataset()
	if err != nil {
		return 0, 0, err
	}
	for _, m := range climate.Metrics {
		if lo, hi, ok := climate.YearBounds(ds.Rows(m)); ok {
			return lo, hi, nil
		}
	}
	return 0, 0, errors.New("dataset has no rows")
}
