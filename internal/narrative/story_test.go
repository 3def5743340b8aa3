package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

func TestActiveStep(t *testing.T) {
	tops := []float64{400, 900, 1400, 1900}

	cases := []struct {
		name    string
		scrollY float64
		want    int
	}{
		{"before first step", 0, -1},
		{"just short of first step", 9.5, -1},
		{"first step", 10, 0},
		{"between steps", 600, 1},
		{"last step", 5000, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ActiveStep(tops, tc.scrollY, 650, DefaultOffset))
		})
	}
}

func TestStory_Enter(t *testing.T) {
	story := DefaultStory()

	ev, ok, err := story.Enter(3, selection.NoStep)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, selection.NarrativeStepEntered{Index: 3, Scenario: climate.ScenarioVeryHigh}, ev)

	_, ok, err = story.Enter(3, 3)
	require.NoError(t, err)
	assert.False(t, ok, "re-entering the active step is a no-op")

	_, _, err = story.Enter(4, 3)
	assert.ErrorIs(t, err, ErrNoSuchStep)
	_, _, err = story.Enter(-1, 3)
	assert.ErrorIs(t, err, ErrNoSuchStep)
}

func TestStory_Scroll(t *testing.T) {
	story := DefaultStory()
	tops := []float64{400, 900, 1400, 1900}

	_, crossed, ok, err := story.Scroll(tops, 0, 600, selection.NoStep, selection.NoStep)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, selection.NoStep, crossed)

	ev, crossed, ok, err := story.Scroll(tops, 600, 600, crossed, selection.NoStep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, crossed)
	assert.Equal(t, 1, ev.Index)
	assert.Equal(t, climate.ScenarioIntermediate, ev.Scenario)

	// Still inside step 1: no new entry even when the selection left the step.
	_, crossed, ok, err = story.Scroll(tops, 620, 600, crossed, selection.NoStep)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, crossed)

	// Scrolling back above every step resets the crossing.
	_, crossed, ok, err = story.Scroll(tops, 0, 600, crossed, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, selection.NoStep, crossed)

	// Crossing into the step the selection already shows is not an entry.
	_, crossed, ok, err = story.Scroll(tops, 1100, 600, crossed, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, crossed)
}

func TestStory_ScrollPastLastStep(t *testing.T) {
	story := DefaultStory()
	tops := []float64{400, 900, 1400, 1900, 2400}

	_, crossed, ok, err := story.Scroll(tops, 2400, 600, 3, 3)
	assert.ErrorIs(t, err, ErrNoSuchStep)
	assert.False(t, ok)
	assert.Equal(t, 3, crossed)
}

func TestDefaultStory_CoversKnownScenarios(t *testing.T) {
	story := DefaultStory()
	require.Len(t, story.Steps, len(climate.KnownScenarios))
	for i, s := range story.Steps {
		assert.Equal(t, climate.KnownScenarios[i], s.Scenario)
		assert.NotEmpty(t, s.Body)
	}
}
