package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const appointmentColumns = `a.id, a.user_id, a.doctor_id, a.patient_name, a.patient_phone,
	a.appointment_date, a.appointment_time, a.notes, a.status, a.version, a.created_at, a.updated_at`

// Ties on date fall back to time and creation order.
const appointmentOrder = " ORDER BY a.appointment_date, a.appointment_time, a.created_at"

func (r *SQLRepository) CreateAppointment(ctx context.Context, apt domain.Appointment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO appointments
			(id, user_id, doctor_id, patient_name, patient_phone, appointment_date, appointment_time,
			 notes, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		apt.ID,
		apt.UserID,
		apt.DoctorID,
		apt.PatientName,
		apt.PatientPhone,
		apt.Date,
		apt.Time,
		apt.Notes,
		string(apt.Status),
		apt.Version,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertOutboxEvent(ctx, tx, ports.NewAppointmentEvent(ports.EventAppointmentBooked, apt)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLRepository) UpdateStatus(ctx context.Context, update domain.StatusUpdate) (*domain.Appointment, error) {
	if !validID(update.AppointmentID) || !validID(update.DoctorID) {
		return nil, domain.ErrAppointmentNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	apt, err := scanAppointment(tx.QueryRowContext(ctx,
		`UPDATE appointments a
		 SET status = $1, version = a.version + 1, updated_at = NOW()
		 WHERE a.id = $2 AND a.doctor_id = $3 AND ($4 = 0 OR a.version = $4)
		 RETURNING `+appointmentColumns,
		string(update.Status),
		update.AppointmentID,
		update.DoctorID,
		update.ExpectedVersion,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missedUpdate(ctx, tx, update)
	}
	if err != nil {
		return nil, err
	}

	if err := insertOutboxEvent(ctx, tx, ports.NewAppointmentEvent(ports.EventAppointmentStatusChanged, *apt)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return apt, nil
}

// missedUpdate explains why an UPDATE matched no row: either the appointment
// is not this doctor's, or the expected version is stale.
func (r *SQLRepository) missedUpdate(ctx context.Context, tx *sql.Tx, update domain.StatusUpdate) error {
	var version int
	err := tx.QueryRowContext(ctx,
		"SELECT version FROM appointments WHERE id = $1 AND doctor_id = $2",
		update.AppointmentID,
		update.DoctorID,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAppointmentNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrVersionConflict
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	if !validID(userID) {
		return []domain.Appointment{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+appointmentColumns+", d.name, d.specialty"+
			" FROM appointments a JOIN doctors d ON d.id = a.doctor_id"+
			" WHERE a.user_id = $1"+appointmentOrder,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Appointment, 0)
	for rows.Next() {
		var summary domain.DoctorSummary
		apt, err := scanAppointment(rows, &summary.Name, &summary.Specialty)
		if err != nil {
			return nil, err
		}
		apt.Doctor = &summary
		list = append(list, *apt)
	}
	return list, rows.Err()
}

func (r *SQLRepository) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	if !validID(doctorID) {
		return []domain.Appointment{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments a WHERE a.doctor_id = $1"+appointmentOrder,
		doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Appointment, 0)
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *apt)
	}
	return list, rows.Err()
}

func scanAppointment(row rowScanner, extra ...any) (*domain.Appointment, error) {
	var (
		apt    domain.Appointment
		date   time.Time
		clock  time.Time
		status string
	)
	dest := []any{
		&apt.ID, &apt.UserID, &apt.DoctorID, &apt.PatientName, &apt.PatientPhone,
		&date, &clock, &apt.Notes, &status, &apt.Version, &apt.CreatedAt, &apt.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	// lib/pq hands DATE and TIME columns back as time.Time.
	apt.Date = date.Format(domain.DateLayout)
	apt.Time = clock.Format(domain.TimeLayout)
	apt.Status = domain.Status(status)
	return &apt, nil
}
