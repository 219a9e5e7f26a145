// Package metrics exposes service counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const namespace = "curacare"

type Collector struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	booked      prometheus.Counter
	transitions *prometheus.CounterVec
}

var _ ports.AppointmentMetrics = (*Collector)(nil)

// NewCollector registers the service metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		booked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_booked_total",
			Help:      "Appointments created.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status changes by target status.",
		}, []string{"status"}),
	}
}

func (c *Collector) ObserveRequest(method, route, status string, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, status).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) AppointmentBooked() {
	c.booked.Inc()
}

func (c *Collector) AppointmentTransitioned(status domain.Status) {
	c.transitions.WithLabelValues(string(status)).Inc()
}
