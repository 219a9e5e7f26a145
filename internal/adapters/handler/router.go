package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
)

// Routes collects the handlers and middleware mounted by NewRouter. Limiter,
// Observer and MetricsHandler are optional.
type Routes struct {
	Auth         *AuthHandler
	Doctors      *DoctorHandler
	Appointments *AppointmentHandler
	Health       *HealthHandler
	Guard        *middleware.AuthMiddleware

	Limiter        *middleware.RateLimiter
	Observer       middleware.RequestObserver
	MetricsHandler http.Handler
}

func NewRouter(rt Routes) *mux.Router {
	r := mux.NewRouter()
	if rt.Observer != nil {
		r.Use(middleware.Metrics(rt.Observer))
	}

	r.HandleFunc("/health", rt.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/health/live", rt.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", rt.Health.Ready).Methods(http.MethodGet)
	if rt.MetricsHandler != nil {
		r.Handle("/metrics", rt.MetricsHandler).Methods(http.MethodGet)
	}

	throttle := func(h http.HandlerFunc) http.Handler {
		if rt.Limiter == nil {
			return h
		}
		return rt.Limiter.Limit(h)
	}
	session := func(h http.HandlerFunc) http.Handler { return rt.Guard.RequireSession(h) }
	doctor := func(h http.HandlerFunc) http.Handler { return rt.Guard.RequireDoctor(h) }

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Handle("/signup", throttle(rt.Auth.SignUp)).Methods(http.MethodPost)
	auth.Handle("/login", throttle(rt.Auth.Login)).Methods(http.MethodPost)
	auth.Handle("/doctor/login", throttle(rt.Auth.DoctorLogin)).Methods(http.MethodPost)
	auth.Handle("/logout", session(rt.Auth.Logout)).Methods(http.MethodPost)
	auth.Handle("/session", session(rt.Auth.Session)).Methods(http.MethodGet)
	auth.Handle("/session/events", session(rt.Auth.SessionEvents)).Methods(http.MethodGet)

	r.HandleFunc("/doctors", rt.Doctors.List).Methods(http.MethodGet)
	r.HandleFunc("/doctors/{id}", rt.Doctors.Get).Methods(http.MethodGet)
	r.Handle("/doctors/{id}/booking", session(rt.Doctors.BookingForm)).Methods(http.MethodGet)
	r.Handle("/doctors/{id}/appointments", session(rt.Appointments.Book)).Methods(http.MethodPost)
	r.Handle("/appointments", session(rt.Appointments.ListMine)).Methods(http.MethodGet)

	r.Handle("/doctor/dashboard", doctor(rt.Appointments.Dashboard)).Methods(http.MethodGet)
	r.Handle("/doctor/appointments/{id}/status", doctor(rt.Appointments.UpdateStatus)).Methods(http.MethodPatch)

	return r
}
