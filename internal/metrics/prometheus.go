package metrics

import (
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "medias_conversion"

type Options struct {
	Labels prometheus.Labels
}

type Instance struct {
	registry *prometheus.Registry

	totalConversions          *prometheus.CounterVec
	currentConversions        *prometheus.GaugeVec
	conversionDurationSeconds *prometheus.HistogramVec
	graphNodes                *prometheus.HistogramVec
}

// compile-time check: *Instance must satisfy port.Metrics
var _ port.Metrics = (*Instance)(nil)

func New(o Options) *Instance {
	m := &Instance{
		registry: prometheus.NewRegistry(),
		totalConversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "total_conversions",
			Help:        "The total number of conversions by kind and final state",
			ConstLabels: o.Labels,
		}, []string{"kind", "state"}),
		currentConversions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "current_conversions",
			Help:        "The number of conversions waiting on the remote engine",
			ConstLabels: o.Labels,
		}, []string{"kind"}),
		conversionDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "conversion_duration_seconds",
			Help:        "The seconds spent from graph submission to job completion",
			ConstLabels: o.Labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"kind"}),
		graphNodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "graph_nodes",
			Help:        "The number of nodes in submitted conversion graphs",
			ConstLabels: o.Labels,
			Buckets:     prometheus.LinearBuckets(5, 10, 8),
		}, []string{"kind"}),
	}
	m.Register(m.registry)
	return m
}

func (m *Instance) Register(r prometheus.Registerer) {
	r.MustRegister(
		m.totalConversions,
		m.currentConversions,
		m.conversionDurationSeconds,
		m.graphNodes,
	)
}

func (m *Instance) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Instance) StartConversion(kind string) func(success bool) {
	start := time.Now()
	m.currentConversions.WithLabelValues(kind).Inc()

	return func(success bool) {
		state := "successful"
		if !success {
			state = "failed"
		}
		m.totalConversions.WithLabelValues(kind, state).Inc()
		m.currentConversions.WithLabelValues(kind).Dec()
		m.conversionDurationSeconds.WithLabelValues(kind).Observe(float64(time.Since(start)/time.Millisecond) / 1000)
	}
}

func (m *Instance) ObserveGraph(kind string, nodes int) {
	m.graphNodes.WithLabelValues(kind).Observe(float64(nodes))
}
