package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type RoleResolverService struct {
	roles   ports.RoleRepository
	doctors ports.DoctorRepository
}

var _ ports.RoleResolver = (*RoleResolverService)(nil)

func NewRoleResolver(roles ports.RoleRepository, doctors ports.DoctorRepository) *RoleResolverService {
	return &RoleResolverService{roles: roles, doctors: doctors}
}

// Resolve never fails: a missing or unreadable role record resolves to a
// patient.
func (s *RoleResolverService) Resolve(ctx context.Context, userID string) domain.Role {
	rec, err := s.roles.FindRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", userID).Msg("role lookup failed, treating as patient")
		}
		return domain.PatientRole{}
	}
	return domain.ResolveRole(rec)
}

// ResolveDoctor returns the doctor role and profile of the session owner,
// or domain.ErrNotDoctor. A role linked to a doctor that no longer exists
// grants nothing.
func (s *RoleResolverService) ResolveDoctor(ctx context.Context, session *domain.Session) (domain.DoctorRole, *domain.Doctor, error) {
	if session == nil {
		return domain.DoctorRole{}, nil, domain.ErrNoSession
	}

	role, ok := domain.AsDoctor(s.Resolve(ctx, session.UserID))
	if !ok {
		return domain.DoctorRole{}, nil, domain.ErrNotDoctor
	}

	doctor, err := s.doctors.FindDoctor(ctx, role.DoctorID())
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return domain.DoctorRole{}, nil, domain.ErrNotDoctor
		}
		return domain.DoctorRole{}, nil, fmt.Errorf("load doctor profile: %w", err)
	}
	return role, doctor, nil
}
