package ports

import (
	"context"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string, portal domain.Portal) (*domain.Session, domain.Role, error)
	CurrentSession(ctx context.Context, token string) (*domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session) error
	Subscribe(ctx context.Context, session *domain.Session) (<-chan domain.SessionEvent, error)
}

type RoleResolver interface {
	Resolve(ctx context.Context, userID string) domain.Role
	ResolveDoctor(ctx context.Context, session *domain.Session) (domain.DoctorRole, *domain.Doctor, error)
}

type DoctorService interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*domain.Doctor, error)
}

type AppointmentService interface {
	Book(ctx context.Context, session *domain.Session, req domain.BookingRequest) (*domain.Appointment, error)
	Transition(ctx context.Context, doctor domain.DoctorRole, appointmentID, status string, expectedVersion int) (*domain.Appointment, error)
	ListForPatient(ctx context.Context, session *domain.Session) ([]domain.Appointment, error)
	ListForDoctor(ctx context.Context, doctor domain.DoctorRole) ([]domain.Appointment, error)
}

type ProvisioningService interface {
	AddDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error)
	CreateDoctorAccount(ctx context.Context, doctorID, email, password string) (*domain.User, error)
}

// AppointmentMetrics receives lifecycle counters.
type AppointmentMetrics interface {
	AppointmentBooked()
	AppointmentTransitioned(status domain.Status)
}
