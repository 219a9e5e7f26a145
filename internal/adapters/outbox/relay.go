// Package outbox forwards committed appointment events from the
// outbox_events table to the message broker.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/sowmya-kancharla03/CuraCare/internal/config"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const markProcessedSQL = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`

var errMalformedPayload = errors.New("malformed outbox payload")

type record struct {
	ID        string
	EventType string
	Payload   []byte
}

// Relay listens for NOTIFY signals on outbox_channel and publishes the
// referenced events. A periodic sweep picks up anything a notification missed.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.AppointmentEventPublisher
	dbCB      *gobreaker.CircuitBreaker

	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.AppointmentEventPublisher) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker("Relay-PostgreSQL"),
	}
	r.markProgress()
	return r
}

// IsHealthy is the liveness signal. An open breaker is degraded but
// recoverable, so it is not considered here.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady reports whether the relay is making progress.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

func (r *Relay) markProgress() {
	r.lastProcessed.Store(time.Now().UnixNano())
	r.healthy.Store(true)
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Int("event", int(ev)).Msg("outbox listener problem")
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return fmt.Errorf("listen %s: %w", outboxChannelName, err)
	}
	log.Info().Str("channel", outboxChannelName).Msg("outbox relay listening")

	if err := r.processPending(ctx); err != nil {
		log.Error().Err(err).Msg("outbox startup backlog failed")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox relay shutting down")
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// Connection was re-established; notifications may have been lost.
				log.Warn().Msg("outbox listener reconnected")
				r.healthy.Store(false)
				if err := r.processPending(ctx); err == nil {
					r.markProgress()
				}
				continue
			}

			if err := r.processByID(ctx, n.Extra); err != nil {
				log.Error().Err(err).Str("event_id", n.Extra).Msg("outbox event failed")
				continue
			}
			r.markProgress()

		case <-ticker.C:
			go func() { _ = listener.Ping() }()

			if err := r.processPending(ctx); err != nil {
				log.Error().Err(err).Msg("outbox sweep failed")
				continue
			}
			r.markProgress()
		}
	}
}

func (r *Relay) processByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			// Already handled, or locked by a concurrent sweep.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.dispatch(ctx, rec); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, markProcessedSQL, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processPending(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		records, err := lockPending(ctx, tx)
		if err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.dispatch(ctx, rec); err != nil {
				log.Error().Err(err).Str("event_id", rec.ID).Msg("outbox publish failed, will retry")
				continue
			}
			if _, err := tx.ExecContext(ctx, markProcessedSQL, rec.ID); err != nil {
				return nil, err
			}
		}
		return nil, tx.Commit()
	})
	return err
}

func lockPending(ctx context.Context, tx *sql.Tx) ([]record, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, event_type, payload
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// dispatch publishes one record. Malformed payloads are logged and reported
// as done so they are marked processed instead of retried forever.
func (r *Relay) dispatch(ctx context.Context, rec record) error {
	evt, err := decodeEvent(rec)
	if err != nil {
		log.Error().Err(err).Str("event_id", rec.ID).Msg("dropping outbox event")
		return nil
	}
	if err := r.publisher.PublishAppointmentEvent(ctx, evt); err != nil {
		return fmt.Errorf("publish %s: %w", rec.ID, err)
	}
	log.Debug().Str("event_id", rec.ID).Str("event_type", evt.EventType).Msg("outbox event published")
	return nil
}

func decodeEvent(rec record) (ports.AppointmentEvent, error) {
	var evt ports.AppointmentEvent
	if err := json.Unmarshal(rec.Payload, &evt); err != nil {
		return evt, fmt.Errorf("%w: %v", errMalformedPayload, err)
	}
	if evt.AppointmentID == "" {
		return evt, fmt.Errorf("%w: missing appointment_id", errMalformedPayload)
	}
	// The row's column is authoritative for routing.
	if rec.EventType != "" {
		evt.EventType = rec.EventType
	}
	switch evt.EventType {
	case ports.EventAppointmentBooked, ports.EventAppointmentStatusChanged:
		return evt, nil
	default:
		return evt, fmt.Errorf("%w: unknown event type %q", errMalformedPayload, evt.EventType)
	}
}
