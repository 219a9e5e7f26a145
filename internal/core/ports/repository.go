package ports

import (
	"context"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// CreateUserWithRole stores the account and its role record atomically.
	CreateUserWithRole(ctx context.Context, user domain.User, role domain.RoleRecord) error
}

type RoleRepository interface {
	// FindRole returns domain.ErrNotFound when the user has no role record.
	FindRole(ctx context.Context, userID string) (*domain.RoleRecord, error)
}

type DoctorRepository interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	// FindDoctor returns domain.ErrDoctorNotFound for unknown ids.
	FindDoctor(ctx context.Context, id string) (*domain.Doctor, error)
	CreateDoctor(ctx context.Context, doctor domain.Doctor) error
}

type AppointmentRepository interface {
	// CreateAppointment stores the appointment together with its
	// appointment.booked outbox event.
	CreateAppointment(ctx context.Context, apt domain.Appointment) error
	// UpdateStatus applies a transition and records an
	// appointment.status_changed outbox event. It returns
	// domain.ErrAppointmentNotFound when no appointment with that id belongs
	// to the doctor and domain.ErrVersionConflict when ExpectedVersion is set
	// and stale.
	UpdateStatus(ctx context.Context, update domain.StatusUpdate) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)
}
