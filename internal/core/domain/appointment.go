package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Appointment struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	DoctorID     string         `json:"doctor_id"`
	PatientName  string         `json:"patient_name"`
	PatientPhone string         `json:"patient_phone"`
	Date         string         `json:"appointment_date"`
	Time         string         `json:"appointment_time"`
	Notes        string         `json:"notes,omitempty"`
	Status       Status         `json:"status"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Doctor       *DoctorSummary `json:"doctors,omitempty"`
}

// BookingRequest is the patient-supplied booking form. Status is accepted so
// that callers sending one are not rejected, but it is never stored.
type BookingRequest struct {
	DoctorID     string `json:"doctor_id"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"appointment_date"`
	Time         string `json:"appointment_time"`
	Notes        string `json:"notes"`
	Status       string `json:"status,omitempty"`
}

// StatusUpdate is a doctor-initiated transition. ExpectedVersion of zero
// means last write wins.
type StatusUpdate struct {
	AppointmentID   string
	DoctorID        string
	Status          Status
	ExpectedVersion int
}

// NewAppointment validates a booking form and builds a pending appointment
// owned by userID.
func NewAppointment(userID string, req BookingRequest, now time.Time) (Appointment, error) {
	name := strings.TrimSpace(req.PatientName)
	phone := strings.TrimSpace(req.PatientPhone)
	doctorID := strings.TrimSpace(req.DoctorID)

	switch {
	case doctorID == "":
		return Appointment{}, &ValidationError{Field: "doctor_id", Message: "doctor_id is required"}
	case name == "":
		return Appointment{}, &ValidationError{Field: "patient_name", Message: "patient_name is required"}
	case phone == "":
		return Appointment{}, &ValidationError{Field: "patient_phone", Message: "patient_phone is required"}
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return Appointment{}, err
	}
	clock, err := ParseClock(req.Time)
	if err != nil {
		return Appointment{}, err
	}

	return Appointment{
		ID:           uuid.NewString(),
		UserID:       userID,
		DoctorID:     doctorID,
		PatientName:  name,
		PatientPhone: phone,
		Date:         date,
		Time:         clock,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       StatusPending,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ParseDate accepts a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "appointment_date", Message: "appointment_date is required"}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "appointment_date", Message: "appointment_date must be YYYY-MM-DD"}
	}
	return t.Format(DateLayout), nil
}

// ParseClock accepts HH:MM or HH:MM:SS and normalises to HH:MM.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "appointment_time", Message: "appointment_time is required"}
	}
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", &ValidationError{Field: "appointment_time", Message: "appointment_time must be HH:MM"}
}

// ParseTargetStatus returns the requested transition target. Only the two
// doctor decisions are valid targets; pending is the creation state.
func ParseTargetStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
