package narrative

import (
	"errors"
	"fmt"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

// ErrNoSuchStep is returned for a step index outside the story.
var ErrNoSuchStep = errors.New("no such narrative step")

// DefaultOffset is the viewport fraction from the top at which a step is entered.
const DefaultOffset = 0.6

// Step is one scrollytelling paragraph tied to a scenario.
type Step struct {
	ID       string           `yaml:"id" json:"id"`
	Scenario climate.Scenario `yaml:"scenario" json:"scenario"`
	Title    string           `yaml:"title" json:"title"`
	Body     string           `yaml:"body" json:"body"`
}

// Story is the ordered list of steps.
type Story struct {
	Steps  []Step
	Offset float64
}

// DefaultStory returns one step per standard scenario.
func DefaultStory() Story {
	return Story{
		Offset: DefaultOffset,
		Steps: []Step{
			{
				ID:       "low",
				Scenario: climate.ScenarioLow,
				Title:    climate.ScenarioLow.Label(),
				Body:     "Rapid emission cuts keep warming modest and rainfall patterns close to today's.",
			},
			{
				ID:       "intermediate",
				Scenario: climate.ScenarioIntermediate,
				Title:    climate.ScenarioIntermediate.Label(),
				Body:     "Current policies continue. Warming keeps climbing through the century before slowing.",
			},
			{
				ID:       "high",
				Scenario: climate.ScenarioHigh,
				Title:    climate.ScenarioHigh.Label(),
				Body:     "Uneven action and regional rivalry push emissions up and regional differences grow.",
			},
			{
				ID:       "very-high",
				Scenario: climate.ScenarioVeryHigh,
				Title:    climate.ScenarioVeryHigh.Label(),
				Body:     "Fossil-fuel driven growth leads to the strongest warming and the largest swings in rainfall.",
			},
		},
	}
}

// Step returns the step at index.
func (s Story) Step(index int) (Step, error) {
	if index < 0 || index >= len(s.Steps) {
		return Step{}, fmt.Errorf("%w: %d", ErrNoSuchStep, index)
	}
	return s.Steps[index], nil
}

// Enter returns the event for entering step index from the current step.
// Entering the already active step reports ok false.
func (s Story) Enter(index, current int) (ev selection.NarrativeStepEntered, ok bool, err error) {
	step, err := s.Step(index)
	if err != nil {
		return ev, false, err
	}
	if index == current {
		return ev, false, nil
	}
	return selection.NarrativeStepEntered{Index: index, Scenario: step.Scenario}, true, nil
}

// Scroll maps a scroll position to a step entry. tops are the document offsets
// of the step elements in story order. crossed is the step index returned by
// the previous call; an entry is produced only when the trigger line crosses
// into a different step than that one. current is the selection's step and is
// not re-entered. The returned index is the new crossed value.
func (s Story) Scroll(tops []float64, scrollY, viewport float64, crossed, current int) (ev selection.NarrativeStepEntered, index int, ok bool, err error) {
	offset := s.Offset
	if offset <= 0 {
		offset = DefaultOffset
	}
	index = ActiveStep(tops, scrollY, viewport, offset)
	if index == crossed || index == selection.NoStep {
		return ev, index, false, nil
	}
	ev, ok, err = s.Enter(index, current)
	if err != nil {
		return ev, crossed, false, err
	}
	return ev, index, ok, nil
}

// ActiveStep returns the last step whose top has crossed the trigger line at
// scrollY + offset*viewport, or -1 when none has.
func ActiveStep(tops []float64, scrollY, viewport, offset float64) int {
	trigger := scrollY + offset*viewport
	active := selection.NoStep
	for i, top := range tops {
		if top <= trigger {
			active = i
		}
	}
	return active
}
