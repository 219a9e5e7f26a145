package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type DoctorHandler struct {
	doctors ports.DoctorService
	now     func() time.Time
}

func NewDoctorHandler(doctors ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, now: time.Now}
}

type DoctorListResponse struct {
	Doctors []domain.Doctor `json:"doctors"`
}

// BookingFormResponse carries what the booking page needs. MinDate is the
// earliest date the date picker offers.
type BookingFormResponse struct {
	Doctor  *domain.Doctor `json:"doctor"`
	MinDate string         `json:"min_date"`
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.ListDoctors(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load doctors")
		return
	}
	if doctors == nil {
		doctors = []domain.Doctor{}
	}
	writeJSON(w, http.StatusOK, DoctorListResponse{Doctors: doctors})
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctors.GetDoctor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, msgDoctorNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) BookingForm(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctors.GetDoctor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, msgDoctorNotFound)
		return
	}
	writeJSON(w, http.StatusOK, BookingFormResponse{
		Doctor:  doctor,
		MinDate: h.now().Format(domain.DateLayout),
	})
}
