package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type AppointmentHandler struct {
	appointments ports.AppointmentService
}

func NewAppointmentHandler(appointments ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type AppointmentResponse struct {
	Message     string              `json:"message"`
	Appointment *domain.Appointment `json:"appointment"`
	Redirect    string              `json:"redirect,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
}

type DashboardResponse struct {
	Doctor       *domain.Doctor       `json:"doctor"`
	Appointments []domain.Appointment `json:"appointments"`
}

type StatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion int    `json:"expected_version,omitempty"`
}

// Book creates an appointment with the doctor named in the path. The path id
// wins over any doctor_id in the body.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.DoctorID = mux.Vars(r)["id"]

	apt, err := h.appointments.Book(r.Context(), middleware.SessionFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, "Booking failed")
		return
	}

	writeJSON(w, http.StatusCreated, AppointmentResponse{
		Message:     "Appointment booked!",
		Appointment: apt,
		Redirect:    appointmentsPath,
	})
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.appointments.ListForPatient(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load appointments")
		return
	}
	writeJSON(w, http.StatusOK, AppointmentListResponse{Appointments: nonNil(list)})
}

// Dashboard and UpdateStatus run behind RequireDoctor, which has already
// resolved the caller's doctor role and profile.
func (h *AppointmentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	role, doctor, _ := middleware.DoctorFromContext(r.Context())
	list, err := h.appointments.ListForDoctor(r.Context(), role)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load appointments")
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{Doctor: doctor, Appointments: nonNil(list)})
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, _, _ := middleware.DoctorFromContext(r.Context())
	apt, err := h.appointments.Transition(
		r.Context(),
		role,
		mux.Vars(r)["id"],
		req.Status,
		req.ExpectedVersion,
	)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update appointment status")
		return
	}

	writeJSON(w, http.StatusOK, AppointmentResponse{
		Message:     "Appointment " + string(apt.Status),
		Appointment: apt,
	})
}

func nonNil(list []domain.Appointment) []domain.Appointment {
	if list == nil {
		return []domain.Appointment{}
	}
	return list
}
