package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

// RegistrationService provisions the doctor catalogue and doctor logins.
// It backs the operator CLI.
type RegistrationService struct {
	users   ports.UserRepository
	doctors ports.DoctorRepository
}

var _ ports.ProvisioningService = (*RegistrationService)(nil)

func NewRegistrationService(users ports.UserRepository, doctors ports.DoctorRepository) *RegistrationService {
	return &RegistrationService{users: users, doctors: doctors}
}

func (s *RegistrationService) AddDoctor(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error) {
	if err := doctor.Validate(); err != nil {
		return nil, err
	}
	doctor.ID = uuid.NewString()
	doctor.CreatedAt = time.Now().UTC()

	if err := s.doctors.CreateDoctor(ctx, doctor); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	log.Info().Str("doctor_id", doctor.ID).Str("name", doctor.Name).Msg("doctor added")
	return &doctor, nil
}

// CreateDoctorAccount creates a login for an existing doctor. The account
// and its doctor role record are written in one transaction, so a failure
// never leaves an account without a role.
func (s *RegistrationService) CreateDoctorAccount(ctx context.Context, doctorID, email, password string) (*domain.User, error) {
	doctor, err := s.doctors.FindDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	user, err := newUser(email, password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleRecord{
		UserID:    user.ID,
		Tag:       domain.RoleDoctor,
		DoctorID:  doctor.ID,
		CreatedAt: user.CreatedAt,
	}
	if err := s.users.CreateUserWithRole(ctx, user, role); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create doctor account: %w", err)
	}

	log.Info().Str("doctor_id", doctor.ID).Str("user_id", user.ID).Msg("doctor account created")
	return &user, nil
}
