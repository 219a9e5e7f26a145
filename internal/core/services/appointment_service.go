package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type AppointmentService struct {
	appointments ports.AppointmentRepository
	doctors      ports.DoctorRepository
	metrics      ports.AppointmentMetrics
	now          func() time.Time
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

type noopMetrics struct{}

func (noopMetrics) AppointmentBooked()                    {}
func (noopMetrics) AppointmentTransitioned(domain.Status) {}

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	doctors ports.DoctorRepository,
	metrics ports.AppointmentMetrics,
) *AppointmentService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		metrics:      metrics,
		now:          time.Now,
	}
}

// Book creates a pending appointment for the session owner. Whatever status
// the request carries is ignored. Nothing is written without a session.
func (s *AppointmentService) Book(ctx context.Context, session *domain.Session, req domain.BookingRequest) (*domain.Appointment, error) {
	if session == nil {
		return nil, domain.ErrNoSession
	}

	apt, err := domain.NewAppointment(session.UserID, req, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.doctors.FindDoctor(ctx, apt.DoctorID); err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if err := s.appointments.CreateAppointment(ctx, apt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.metrics.AppointmentBooked()
	log.Info().
		Str("appointment_id", apt.ID).
		Str("doctor_id", apt.DoctorID).
		Str("date", apt.Date).
		Msg("appointment booked")
	return &apt, nil
}

// Transition sets a doctor's decision on one of their appointments.
// Without expectedVersion the write is last-write-wins.
func (s *AppointmentService) Transition(
	ctx context.Context,
	doctor domain.DoctorRole,
	appointmentID, status string,
	expectedVersion int,
) (*domain.Appointment, error) {
	if doctor.DoctorID() == "" {
		return nil, domain.ErrNotDoctor
	}

	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "appointment id is required"}
	}
	if expectedVersion < 0 {
		return nil, &domain.ValidationError{Field: "expected_version", Message: "expected_version must not be negative"}
	}
	target, err := domain.ParseTargetStatus(status)
	if err != nil {
		return nil, err
	}

	updated, err := s.appointments.UpdateStatus(ctx, domain.StatusUpdate{
		AppointmentID:   appointmentID,
		DoctorID:        doctor.DoctorID(),
		Status:          target,
		ExpectedVersion: expectedVersion,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) || errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.metrics.AppointmentTransitioned(target)
	log.Info().
		Str("appointment_id", updated.ID).
		Str("status", string(updated.Status)).
		Int("version", updated.Version).
		Msg("appointment status changed")
	return updated, nil
}

// ListForPatient returns the session owner's appointments with doctor name
// and specialty, earliest date first.
func (s *AppointmentService) ListForPatient(ctx context.Context, session *domain.Session) ([]domain.Appointment, error) {
	if session == nil {
		return nil, domain.ErrNoSession
	}
	list, err := s.appointments.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return list, nil
}

// ListForDoctor returns the doctor's appointments, earliest date first.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctor domain.DoctorRole) ([]domain.Appointment, error) {
	if doctor.DoctorID() == "" {
		return nil, domain.ErrNotDoctor
	}
	list, err := s.appointments.ListByDoctor(ctx, doctor.DoctorID())
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	return list, nil
}
