package selection

import (
	"fmt"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// Event is an intent coming from a UI control, the narrative or the autoplay timer.
type Event interface {
	// Name identifies the event kind in logs and metrics.
	Name() string
	apply(s State, opts Options) (State, error)
}

// Reduce folds e into s. On error the returned state is a valid state the
// caller may keep rendering: s itself for rejected events.
func Reduce(s State, opts Options, e Event) (State, error) {
	next, err := e.apply(s.clone(), opts)
	if err != nil {
		return s, err
	}
	return next, nil
}

// RegionSelected picks a region from the dropdown or the map.
type RegionSelected struct {
	Region string
}

func (RegionSelected) Name() string { return "region_selected" }

func (e RegionSelected) apply(s State, _ Options) (State, error) {
	s.Region = e.Region
	return s, nil
}

// ScenarioToggled flips one scenario pill. A pill change leaves the active
// narrative step.
type ScenarioToggled struct {
	Scenario climate.Scenario
}

func (ScenarioToggled) Name() string { return "scenario_toggled" }

func (e ScenarioToggled) apply(s State, opts Options) (State, error) {
	if !opts.known(e.Scenario) {
		return s, fmt.Errorf("%w: %s", ErrUnknownScenario, e.Scenario)
	}

	var set []climate.Scenario
	if s.IsActive(e.Scenario) {
		for _, a := range s.Active {
			if a != e.Scenario {
				set = append(set, a)
			}
		}
	} else {
		set = append(s.Active, e.Scenario)
	}
	if len(set) == 0 {
		return s, ErrEmptyActiveSet
	}

	active, err := opts.order(set)
	if err != nil {
		return s, err
	}
	s.Active = active
	s.Focus = active[0]
	s.FocusPinned = false
	s.Step = NoStep
	return s, nil
}

// ScenariosSet replaces the whole active set.
type ScenariosSet struct {
	Scenarios []climate.Scenario
}

func (ScenariosSet) Name() string { return "scenarios_set" }

func (e ScenariosSet) apply(s State, opts Options) (State, error) {
	active, err := opts.order(e.Scenarios)
	if err != nil {
		return s, err
	}
	if len(active) == 0 {
		return s, ErrEmptyActiveSet
	}
	s.Active = active
	s.Focus = active[0]
	s.FocusPinned = false
	s.Step = NoStep
	return s, nil
}

// NarrativeStepEntered is raised when a story step crosses the scroll
// threshold or is clicked.
type NarrativeStepEntered struct {
	Index    int
	Scenario climate.Scenario
}

func (NarrativeStepEntered) Name() string { return "narrative_step_entered" }

func (e NarrativeStepEntered) apply(s State, opts Options) (State, error) {
	if !opts.known(e.Scenario) {
		return s, fmt.Errorf("%w: %s", ErrUnknownScenario, e.Scenario)
	}
	s.Step = e.Index
	s.Focus = e.Scenario
	s.FocusPinned = true
	if opts.NarrowOnStep {
		s.Active = []climate.Scenario{e.Scenario}
	}
	return s, nil
}

// YearAdvanced moves the year cutoff forward by one autoplay step.
type YearAdvanced struct {
	Step, Min, Max int
}

func (YearAdvanced) Name() string { return "year_advanced" }

func (e YearAdvanced) apply(s State, _ Options) (State, error) {
	s.YearCutoff = NextCutoff(s.YearCutoff, e.Step, e.Min, e.Max)
	return s, nil
}

// YearCutoffSet is a manual slider change. Year 0 clears the cutoff.
type YearCutoffSet struct {
	Year int
}

func (YearCutoffSet) Name() string { return "year_cutoff_set" }

func (e YearCutoffSet) apply(s State, _ Options) (State, error) {
	s.YearCutoff = e.Year
	return s, nil
}

// NextCutoff advances current by step, wrapping to minYear once maxYear would
// be exceeded. An unset or out-of-range cutoff restarts at minYear.
func NextCutoff(current, step, minYear, maxYear int) int {
	if step <= 0 {
		step = 1
	}
	if current < minYear || current > maxYear {
		return minYear
	}
	next := current + step
	if next > maxYear {
		return minYear
	}
	return next
}
