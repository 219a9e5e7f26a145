package mocks

import (
	"context"
	"sync"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

// MockSessionStore keeps sessions in memory.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session

	SaveError     error
	IsActiveError error
	RevokeError   error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *MockSessionStore) Save(ctx context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionStore) IsActive(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsActiveError != nil {
		return false, m.IsActiveError
	}
	_, ok := m.sessions[sessionID]
	return ok, nil
}

func (m *MockSessionStore) Revoke(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MockSessionStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MockSessionNotifier fans events out to in-process subscribers.
type MockSessionNotifier struct {
	mu        sync.Mutex
	subs      map[string][]chan domain.SessionEvent
	Published []domain.SessionEvent

	PublishError   error
	SubscribeError error
}

var _ ports.SessionNotifier = (*MockSessionNotifier)(nil)

func NewMockSessionNotifier() *MockSessionNotifier {
	return &MockSessionNotifier{subs: make(map[string][]chan domain.SessionEvent)}
}

func (m *MockSessionNotifier) Publish(ctx context.Context, evt domain.SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Published = append(m.Published, evt)
	for _, ch := range m.subs[evt.UserID] {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

func (m *MockSessionNotifier) Subscribe(ctx context.Context, userID string) (<-chan domain.SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubscribeError != nil {
		return nil, m.SubscribeError
	}

	ch := make(chan domain.SessionEvent, 8)
	m.subs[userID] = append(m.subs[userID], ch)

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.subs[userID]
		for i, c := range list {
			if c == ch {
				m.subs[userID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// Subscribers returns the number of live subscriptions for a user.
func (m *MockSessionNotifier) Subscribers(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[userID])
}

// MockMetrics counts lifecycle events.
type MockMetrics struct {
	mu          sync.Mutex
	Booked      int
	Transitions map[domain.Status]int
}

var _ ports.AppointmentMetrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Transitions: make(map[domain.Status]int)}
}

func (m *MockMetrics) AppointmentBooked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Booked++
}

func (m *MockMetrics) AppointmentTransitioned(status domain.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[status]++
}
