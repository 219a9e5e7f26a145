package ports

import (
	"context"
	"time"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

type AppointmentEvent struct {
	EventType     string        `json:"event_type"`
	AppointmentID string        `json:"appointment_id"`
	UserID        string        `json:"user_id"`
	DoctorID      string        `json:"doctor_id"`
	Date          string        `json:"appointment_date"`
	Time          string        `json:"appointment_time"`
	Status        domain.Status `json:"status"`
	Version       int           `json:"version"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewAppointmentEvent(eventType string, apt domain.Appointment) AppointmentEvent {
	return AppointmentEvent{
		EventType:     eventType,
		AppointmentID: apt.ID,
		UserID:        apt.UserID,
		DoctorID:      apt.DoctorID,
		Date:          apt.Date,
		Time:          apt.Time,
		Status:        apt.Status,
		Version:       apt.Version,
		OccurredAt:    time.Now().UTC(),
	}
}

type AppointmentEventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, evt AppointmentEvent) error
}
