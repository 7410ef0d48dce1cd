package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	groupsCreated      prometheus.Counter
	participantsJoined prometheus.Counter
	draws              *prometheus.CounterVec
	drawDuration       prometheus.Histogram
	notifications      *prometheus.CounterVec
	workerPoolIdle     prometheus.Gauge
	workerPoolBusy     prometheus.Gauge
	workerPoolStopped  prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		groupsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "santavibe_groups_created_total",
				Help: "Total number of gift-exchange groups created",
			},
		),
		participantsJoined: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "santavibe_participants_joined_total",
				Help: "Total number of participants who joined a group",
			},
		),
		draws: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santavibe_draws_total",
				Help: "Total number of draw executions by outcome",
			},
			[]string{"outcome"},
		),
		drawDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "santavibe_draw_duration_seconds",
				Help:    "Draw execution duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),
		notifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "santavibe_notifications_total",
				Help: "Total number of assignment notifications by status",
			},
			[]string{"status"},
		),
		workerPoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "santavibe_worker_pool_idle",
				Help: "Number of idle notification workers",
			},
		),
		workerPoolBusy: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "santavibe_worker_pool_busy",
				Help: "Number of busy notification workers",
			},
		),
		workerPoolStopped: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "santavibe_worker_pool_stopped",
				Help: "Number of stopped notification workers",
			},
		),
	}
}

// RecordGroupCreated increments the count of created groups
func (c *Collector) RecordGroupCreated() {
	c.groupsCreated.Inc()
}

// RecordParticipantJoined increments the count of joined participants
func (c *Collector) RecordParticipantJoined() {
	c.participantsJoined.Inc()
}

// RecordDraw records a draw execution with its outcome and duration
func (c *Collector) RecordDraw(outcome string, duration time.Duration) {
	c.draws.WithLabelValues(outcome).Inc()
	c.drawDuration.Observe(duration.Seconds())
}

// RecordNotification records a notification delivery attempt
func (c *Collector) RecordNotification(status string) {
	c.notifications.WithLabelValues(status).Inc()
}

// RecordWorkerPoolStatus records worker pool status
func (c *Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
	c.workerPoolStopped.Set(float64(stopped))
}
