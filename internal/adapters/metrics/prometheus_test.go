package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.AppointmentBooked()
	c.AppointmentBooked()
	c.AppointmentTransitioned(domain.StatusConfirmed)
	c.ObserveRequest("GET", "/doctors/{id}", "200", 15*time.Millisecond)

	out := scrape(t, reg)
	for _, want := range []string{
		"curacare_appointments_booked_total 2",
		`curacare_appointment_transitions_total{status="confirmed"} 1`,
		`curacare_http_requests_total{method="GET",route="/doctors/{id}",status="200"} 1`,
		`curacare_http_request_duration_seconds_count{method="GET",route="/doctors/{id}"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in scrape output", want)
		}
	}
}
