package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

const doctorColumns = "id, name, specialty, experience_years, rating, image_url, available, created_at"

func (r *SQLRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+doctorColumns+" FROM doctors ORDER BY name, created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, *d)
	}
	return doctors, rows.Err()
}

func (r *SQLRepository) FindDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	if !validID(id) {
		return nil, domain.ErrDoctorNotFound
	}

	d, err := scanDoctor(r.db.QueryRowContext(ctx, "SELECT "+doctorColumns+" FROM doctors WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDoctorNotFound
	}
	return d, err
}

func (r *SQLRepository) CreateDoctor(ctx context.Context, doctor domain.Doctor) error {
	var image sql.NullString
	if doctor.ImageURL != nil {
		image = nullable(*doctor.ImageURL)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO doctors (id, name, specialty, experience_years, rating, image_url, available, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doctor.ID,
		doctor.Name,
		doctor.Specialty,
		doctor.ExperienceYears,
		doctor.Rating,
		image,
		doctor.Available,
		doctor.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoctor(row rowScanner) (*domain.Doctor, error) {
	var (
		d     domain.Doctor
		image sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.ExperienceYears, &d.Rating, &image, &d.Available, &d.CreatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		d.ImageURL = &image.String
	}
	return &d, nil
}
