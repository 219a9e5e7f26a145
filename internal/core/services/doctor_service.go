package services

import (
	"context"
	"strings"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type DoctorService struct {
	doctors ports.DoctorRepository
}

var _ ports.DoctorService = (*DoctorService)(nil)

func NewDoctorService(doctors ports.DoctorRepository) *DoctorService {
	return &DoctorService{doctors: doctors}
}

// ListDoctors returns the catalogue ordered by name.
func (s *DoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.doctors.ListDoctors(ctx)
}

func (s *DoctorService) GetDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrDoctorNotFound
	}
	return s.doctors.FindDoctor(ctx, id)
}
