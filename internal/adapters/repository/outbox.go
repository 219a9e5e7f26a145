package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

// insertOutboxEvent records evt inside the caller's transaction. The
// outbox_events trigger notifies the relay once the transaction commits.
func insertOutboxEvent(ctx context.Context, tx *sql.Tx, evt ports.AppointmentEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
		uuid.NewString(),
		evt.EventType,
		payload,
		evt.OccurredAt,
	)
	return err
}
