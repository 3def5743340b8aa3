package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/observability"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

// ErrUnknownRegion is returned when a region is not present in the dataset.
var ErrUnknownRegion = errors.New("unknown region")

// Store is the read side of the dataset store.
type Store interface {
	Dataset() (*climate.Dataset, error)
	Regions() []string
	HasRegion(region string) bool
	YearBounds() (minYear, maxYear int, err error)
}

// Player controls the year autoplay timer.
type Player interface {
	Start() error
	Stop()
	Running() bool
}

// Service owns the selection state. Every event is reduced, committed and
// rendered under one lock, so readers never observe a state without its render.
type Service struct {
	mu       sync.Mutex
	state    selection.State
	last     RenderResult
	autoplay Player
	// crossed is the story step under the scroll trigger line at the last
	// Scroll call. It is independent of state.Step.
	crossed int

	dataset *climate.Dataset
	store   Store
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService builds the initial selection and renders it. The store must be loaded.
func NewService(st Store, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Service, error) {
	ds, err := st.Dataset()
	if err != nil {
		return nil, err
	}

	region := climate.DefaultRegion
	if !st.HasRegion(region) {
		regions := st.Regions()
		if len(regions) == 0 {
			return nil, fmt.Errorf("%w: dataset has no regions", ErrUnknownRegion)
		}
		region = regions[0]
	}

	initial, err := selection.New(opts.Selection, region, opts.Selection.Scenarios, opts.DefaultFocus)
	if err != nil {
		return nil, fmt.Errorf("initial selection: %w", err)
	}

	s := &Service{
		state:   initial,
		crossed: selection.NoStep,
		dataset: ds,
		store:   st,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
	s.last = s.render()
	return s, nil
}

// AttachAutoplay connects the autoplay timer. Call before serving requests.
func (s *Service) AttachAutoplay(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoplay = p
}

// Dispatch folds ev into the selection and re-renders. A scenario toggle that
// would empty the active set is refused: the previous selection is kept and
// the result is marked Rejected. Other refused events return an error and the
// unchanged current render.
func (s *Service) Dispatch(ctx context.Context, ev selection.Event) (RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}

	// A manual year change always wins over autoplay.
	if _, manual := ev.(selection.YearCutoffSet); manual {
		s.StopAutoplay()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := ev.(selection.RegionSelected); ok && !s.store.HasRegion(e.Region) {
		return s.snapshot(), fmt.Errorf("%w: %q", ErrUnknownRegion, e.Region)
	}
	s.metrics.SelectionEvents.WithLabelValues(ev.Name()).Inc()

	next, err := selection.Reduce(s.state, s.opts.Selection, ev)
	rejected := false
	if err != nil {
		if !errors.Is(err, selection.ErrEmptyActiveSet) {
			return s.snapshot(), err
		}
		rejected = true
		s.metrics.RejectedSelections.Inc()
		s.logger.Info("selection rejected", "event", ev.Name(), "reason", err)
	}

	s.state = next
	s.last = s.render()
	res := s.snapshot()
	res.Rejected = rejected

	s.logger.Debug("selection changed",
		"event", ev.Name(),
		"region", next.Region,
		"active", next.Active,
		"focus", next.Focus,
		"year_cutoff", next.YearCutoff,
	)
	return res, nil
}

// Snapshot returns the render of the current selection.
func (s *Service) Snapshot() RenderResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// State returns the current selection.
func (s *Service) State() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ChartConfig returns the renderer input of metric for the current selection.
func (s *Service) ChartConfig(m climate.Metric) render.ChartConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChartConfig(s.dataset, s.state, m, s.opts)
}

// EnterStep activates narrative step index. Entering the active step only
// returns the current render.
func (s *Service) EnterStep(ctx context.Context, index int) (RenderResult, error) {
	ev, ok, err := s.opts.Story.Enter(index, s.State().Step)
	if err != nil {
		return s.Snapshot(), err
	}
	if !ok {
		return s.Snapshot(), nil
	}
	return s.Dispatch(ctx, ev)
}

// Scroll activates a step when the trigger line crosses into it. Scrolling
// within the step last crossed produces no event, so pill changes made after
// entering a step survive further scrolling.
func (s *Service) Scroll(ctx context.Context, tops []float64, scrollY, viewport float64) (RenderResult, error) {
	s.mu.Lock()
	ev, crossed, ok, err := s.opts.Story.Scroll(tops, scrollY, viewport, s.crossed, s.state.Step)
	s.crossed = crossed
	s.mu.Unlock()

	if err != nil {
		return s.Snapshot(), err
	}
	if !ok {
		return s.Snapshot(), nil
	}
	return s.Dispatch(ctx, ev)
}

// AdvanceYear moves the cutoff by one autoplay step, wrapping to the first year.
func (s *Service) AdvanceYear(ctx context.Context) error {
	lo, hi, err := s.store.YearBounds()
	if err != nil {
		return err
	}
	_, err = s.Dispatch(ctx, selection.YearAdvanced{Step: s.opts.AutoplayStep, Min: lo, Max: hi})
	return err
}

// StartAutoplay starts the autoplay timer if one is attached.
func (s *Service) StartAutoplay() (RenderResult, error) {
	s.mu.Lock()
	p := s.autoplay
	s.mu.Unlock()

	if p == nil {
		return s.Snapshot(), errors.New("autoplay not configured")
	}
	if err := p.Start(); err != nil {
		return s.Snapshot(), fmt.Errorf("start autoplay: %w", err)
	}
	return s.Snapshot(), nil
}

// StopAutoplay stops the autoplay timer. The selection lock is released before
// stopping so that an in-flight tick can finish its dispatch.
func (s *Service) StopAutoplay() RenderResult {
	s.mu.Lock()
	p := s.autoplay
	s.mu.Unlock()

	if p != nil {
		p.Stop()
	}
	return s.Snapshot()
}

func (s *Service) snapshot() RenderResult {
	res := s.last
	res.Autoplay = s.autoplay != nil && s.autoplay.Running()
	return res
}

func (s *Service) render() RenderResult {
	start := time.Now()
	res := OnSelectionChanged(s.dataset, s.store.Regions(), s.state, s.opts)
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())

	for _, c := range res.Charts {
		outcome := "drawn"
		if c.Scene.Empty {
			outcome = "empty"
		}
		s.metrics.Renders.WithLabelValues(string(c.Metric), outcome).Inc()
	}
	return res
}
