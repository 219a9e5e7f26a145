package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/handler"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
)

func TestHealthHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	tests := []struct {
		name       string
		checks     map[string]handler.CheckFunc
		path       string
		wantStatus int
		wantBody   string
	}{
		{"liveness ignores dependencies", map[string]handler.CheckFunc{"database": down}, "/health", http.StatusOK, "UP"},
		{"live alias", nil, "/health/live", http.StatusOK, "UP"},
		{"ready when all up", map[string]handler.CheckFunc{"database": up, "redis": up}, "/health/ready", http.StatusOK, "UP"},
		{"not ready when one is down", map[string]handler.CheckFunc{"database": up, "redis": down}, "/health/ready", http.StatusServiceUnavailable, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler("1.0.0", tt.checks)
			router := handler.NewRouter(handler.Routes{
				Auth:         handler.NewAuthHandler(nil, nil),
				Doctors:      handler.NewDoctorHandler(nil),
				Appointments: handler.NewAppointmentHandler(nil),
				Health:       h,
				Guard:        middleware.NewAuthMiddleware(nil, nil),
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			got := decode[handler.HealthResponse](t, rec)
			if got.Status != tt.wantBody {
				t.Errorf("expected status %s, got %s", tt.wantBody, got.Status)
			}
			if tt.wantBody == "DOWN" && got.Checks["redis"].Status != "DOWN" {
				t.Errorf("expected redis check DOWN, got %+v", got.Checks)
			}
		})
	}
}
