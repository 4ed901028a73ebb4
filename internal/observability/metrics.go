package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "relatos"

// Metrics holds the Prometheus counters, histograms, and gauges for the report registry.
type Metrics struct {
	ReportsRegistered prometheus.Counter
	ValidationErrors  *prometheus.CounterVec // labels: field
	NearbyQueries     prometheus.Counter
	NearbyMatches     prometheus.Histogram
	Lookups           *prometheus.CounterVec // labels: result={found,not_found}
	Saves             *prometheus.CounterVec // labels: outcome={success,error}
	StoreReports      prometheus.Gauge

	CommandDuration *prometheus.HistogramVec // labels: command
}

// NewMetrics creates all registry metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.ReportsRegistered,
		m.ValidationErrors,
		m.NearbyQueries,
		m.NearbyMatches,
		m.Lookups,
		m.Saves,
		m.StoreReports,
		m.CommandDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so it
// can be called from many tests without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_registered_total",
			Help:      "Total reports accepted by the register command.",
		}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected inputs by offending field.",
		}, []string{"field"}),
		NearbyQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearby_queries_total",
			Help:      "Total proximity queries run.",
		}),
		NearbyMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nearby_matches",
			Help:      "Number of reports returned per proximity query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "National ID lookups by result.",
		}, []string{"result"}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Data file saves by outcome.",
		}, []string{"outcome"}),
		StoreReports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_reports",
			Help:      "Reports currently held in memory.",
		}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent executing a command, excluding user input.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"command"}),
	}
}
