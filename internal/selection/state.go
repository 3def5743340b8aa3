// Package selection holds the dashboard's selection state and the reducer that
// folds intent events into it.
package selection

import (
	"errors"
	"fmt"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

var (
	// ErrEmptyActiveSet is returned when an event would leave no scenario active.
	// The returned state keeps the previous active set.
	ErrEmptyActiveSet = errors.New("at least one scenario must stay active")
	// ErrUnknownScenario is returned for scenarios outside the configured set.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// NoStep marks that no narrative step is active.
const NoStep = -1

// State is the current selection. Values are never mutated in place; every
// event produces a new State.
type State struct {
	Region      string             `json:"region"`
	Active      []climate.Scenario `json:"activeScenarios"`
	Focus       climate.Scenario   `json:"focusScenario"`
	FocusPinned bool               `json:"focusPinned"`
	YearCutoff  int                `json:"yearCutoff,omitempty"` // 0 = show every year
	Step        int                `json:"step"`
}

// Options configures the reducer.
type Options struct {
	// Scenarios is the configured scenario set in display order.
	Scenarios []climate.Scenario
	// NarrowOnStep narrows the active set to the step's scenario when a
	// narrative step is entered.
	NarrowOnStep bool
}

// New builds a valid initial State. active is reordered to display order;
// focus pins the focus scenario when non-empty, otherwise the first active
// scenario is used.
func New(opts Options, region string, active []climate.Scenario, focus climate.Scenario) (State, error) {
	ordered, err := opts.order(active)
	if err != nil {
		return State{}, err
	}
	if len(ordered) == 0 {
		return State{}, ErrEmptyActiveSet
	}

	s := State{
		Region: region,
		Active: ordered,
		Focus:  ordered[0],
		Step:   NoStep,
	}
	if focus != "" {
		if !opts.known(focus) {
			return State{}, fmt.Errorf("%w: %s", ErrUnknownScenario, focus)
		}
		s.Focus = focus
		s.FocusPinned = true
	}
	return s, nil
}

// IsActive reports whether sc is currently displayed.
func (s State) IsActive(sc climate.Scenario) bool {
	for _, a := range s.Active {
		if a == sc {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	s.Active = append([]climate.Scenario(nil), s.Active...)
	return s
}

func (o Options) known(sc climate.Scenario) bool {
	for _, k := range o.Scenarios {
		if k == sc {
			return true
		}
	}
	return false
}

// order returns the members of set in display order, dropping duplicates.
func (o Options) order(set []climate.Scenario) ([]climate.Scenario, error) {
	want := make(map[climate.Scenario]bool, len(set))
	for _, sc := range set {
		if !o.known(sc) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, sc)
		}
		want[sc] = true
	}
	out := make([]climate.Scenario, 0, len(want))
	for _, sc := range o.Scenarios {
		if want[sc] {
			out = append(out, sc)
		}
	}
	return out, nil
}
