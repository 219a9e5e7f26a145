package ports

import (
	"context"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

// SessionStore tracks which issued sessions are still signed in.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// SessionNotifier fans out session changes. A subscription lives until ctx
// is cancelled, after which the returned channel is closed.
type SessionNotifier interface {
	Publish(ctx context.Context, evt domain.SessionEvent) error
	Subscribe(ctx context.Context, userID string) (<-chan domain.SessionEvent, error)
}
