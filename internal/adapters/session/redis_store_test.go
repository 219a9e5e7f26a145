package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/mocks"
)

func TestRedisStore_Lifecycle(t *testing.T) {
	client := mocks.NewMockRedisClient()
	store := NewRedisStore(client)
	ctx := context.Background()

	s := domain.Session{ID: "sid-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !client.HasKey("session:sid-1") {
		t.Fatal("expected session:sid-1 to be written")
	}
	if ttl := client.TTL("session:sid-1"); ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected ttl bounded by token lifetime, got %v", ttl)
	}

	active, err := store.IsActive(ctx, "sid-1")
	if err != nil || !active {
		t.Fatalf("expected active session, got %v, %v", active, err)
	}

	if err := store.Revoke(ctx, "sid-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	active, err = store.IsActive(ctx, "sid-1")
	if err != nil || active {
		t.Errorf("expected revoked session to be inactive, got %v, %v", active, err)
	}
}

func TestRedisStore_ExpiredSession(t *testing.T) {
	client := mocks.NewMockRedisClient()
	store := NewRedisStore(client)

	err := store.Save(context.Background(), domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	if !errors.Is(err, errSessionExpired) {
		t.Fatalf("expected errSessionExpired, got %v", err)
	}
	if client.HasKey("session:old") {
		t.Error("expired session must not be registered")
	}
}

func TestRedisStore_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	client := mocks.NewMockRedisClient()
	client.ExistsError = boom
	client.DelError = boom
	store := NewRedisStore(client)
	ctx := context.Background()

	if _, err := store.IsActive(ctx, "sid"); !errors.Is(err, boom) {
		t.Errorf("expected exists error, got %v", err)
	}
	if err := store.Revoke(ctx, "sid"); !errors.Is(err, boom) {
		t.Errorf("expected del error, got %v", err)
	}
}

func TestDecodeEvent(t *testing.T) {
	evt, err := decodeEvent(`{"type":"signed_out","user_id":"u1","session_id":"s1","at":"2025-03-01T09:00:00Z"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Type != domain.SessionSignedOut || evt.UserID != "u1" || evt.SessionID != "s1" {
		t.Errorf("unexpected event %+v", evt)
	}

	if _, err := decodeEvent("not json"); err == nil {
		t.Error("expected error for malformed payload")
	}

	if got := channelFor("u1"); got != "session-events:u1" {
		t.Errorf("unexpected channel %q", got)
	}
}
