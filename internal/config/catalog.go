package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/narrative"
)

// Catalog is the optional YAML file describing scenarios, map regions and the
// narrative. Sections left out keep their defaults.
type Catalog struct {
	Scenarios []climate.Scenario `yaml:"scenarios"`
	Regions   geo.Catalog        `yaml:"regions"`
	Steps     []narrative.Step   `yaml:"steps"`
}

// DefaultCatalog returns the built-in scenarios, regions and steps.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Scenarios: append([]climate.Scenario(nil), climate.KnownScenarios...),
		Regions:   geo.DefaultCatalog(),
		Steps:     narrative.DefaultStory().Steps,
	}
}

// LoadCatalog reads path. An empty path returns the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(file.Scenarios) > 0 {
		cat.Scenarios = file.Scenarios
	}
	if len(file.Regions) > 0 {
		cat.Regions = file.Regions
	}
	if len(file.Steps) > 0 {
		cat.Steps = file.Steps
	}

	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	known := make(map[climate.Scenario]bool, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s == "" {
			return fmt.Errorf("empty scenario id")
		}
		if known[s] {
			return fmt.Errorf("duplicate scenario %q", s)
		}
		known[s] = true
	}

	names := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region without name")
		}
		if names[r.Name] {
			return fmt.Errorf("duplicate region %q", r.Name)
		}
		if (r.Lon == nil) != (r.Lat == nil) {
			return fmt.Errorf("region %q: lon and lat must be set together", r.Name)
		}
		names[r.Name] = true
	}

	for i, s := range c.Steps {
		if !known[s.Scenario] {
			return fmt.Errorf("step %d: unknown scenario %q", i, s.Scenario)
		}
	}
	return nil
}
