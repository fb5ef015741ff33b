package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	sessionsLive  prometheus.Gauge
	queueWaiting  prometheus.Gauge
	eventsTotal   *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newbot_pipeline_stage_total",
				Help: "Pipeline stage runs by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newbot_pipeline_stage_duration_seconds",
				Help:    "Pipeline stage duration in seconds",
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"stage"},
		),
		sessionsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "newbot_sessions_live",
				Help: "Number of live conversation sessions",
			},
		),
		queueWaiting: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "newbot_queue_waiting",
				Help: "Number of pipeline runs waiting for a slot",
			},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newbot_events_total",
				Help: "Inbound events by kind and result",
			},
			[]string{"kind", "result"},
		),
	}
	m.registry.MustRegister(
		m.stageTotal,
		m.stageDuration,
		m.sessionsLive,
		m.queueWaiting,
		m.eventsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns an HTTP handler for Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStage records a pipeline stage outcome and duration
func (m *Metrics) RecordStage(stage string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordEvent counts an inbound event
func (m *Metrics) RecordEvent(kind, result string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind, result).Inc()
}

// SetSessions sets the live sessions gauge
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsLive.Set(float64(n))
}

// SetQueueWaiting sets the waiting runs gauge
func (m *Metrics) SetQueueWaiting(n int) {
	if m == nil {
		return
	}
	m.queueWaiting.Set(float64(n))
}
