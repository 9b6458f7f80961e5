package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Entity store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
	StoreChanges    *prometheus.CounterVec

	// Prescription and medicine search generation metrics
	GenerationRequests *prometheus.CounterVec
	GenerationLatency  *prometheus.HistogramVec

	// Outgoing email metrics
	EmailsSent *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of entity store operations",
		}, []string{"operation", "status"}),
		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of entity store operations",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		StoreChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "changes_received_total",
			Help:      "Total number of change notifications received from other instances",
		}, []string{"kind"}),

		GenerationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total number of generation requests",
		}, []string{"kind", "status"}),
		GenerationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Duration of generation requests",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 90},
		}, []string{"kind"}),

		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Total number of notification emails attempted",
		}, []string{"template", "status"}),
	}
}

func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
