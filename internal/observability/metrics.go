package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_dashboard"

// Metrics holds the Prometheus collectors for the dashboard.
type Metrics struct {
	DatasetRows         *prometheus.GaugeVec // labels: metric={temperature,precipitation}
	DatasetLoadDuration prometheus.Histogram

	// Selection pipeline metrics.
	SelectionEvents    *prometheus.CounterVec // labels: event
	RejectedSelections prometheus.Counter
	Renders            *prometheus.CounterVec // labels: metric, outcome={drawn,empty}
	RenderDuration     prometheus.Histogram

	// Autoplay metrics.
	AutoplayRunning prometheus.Gauge
	AutoplayTicks   prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.SelectionEvents,
		m.RejectedSelections,
		m.Renders,
		m.RenderDuration,
		m.AutoplayRunning,
		m.AutoplayTicks,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows loaded per metric dataset.",
		}, []string{"metric"}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of the initial dataset load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SelectionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_total",
			Help:      "Intent events folded into the selection state, by event type.",
		}, []string{"event"}),
		RejectedSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_selections_total",
			Help:      "Scenario toggles that would have emptied the active set.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Chart scenes built, by metric and outcome.",
		}, []string{"metric", "outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of a full selection-changed render.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		AutoplayRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "autoplay_running",
			Help:      "1 while the year autoplay timer is active.",
		}),
		AutoplayTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autoplay_ticks_total",
			Help:      "Year cutoff advances triggered by autoplay.",
		}),
	}
}
