package mocks

import (
	"context"
	"sync"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

// MockAppointmentEventPublisher stands in for the RabbitMQ broker.
type MockAppointmentEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.AppointmentEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.AppointmentEventPublisher = (*MockAppointmentEventPublisher)(nil)

func NewMockAppointmentEventPublisher() *MockAppointmentEventPublisher {
	return &MockAppointmentEventPublisher{
		PublishedEvents: make([]ports.AppointmentEvent, 0),
	}
}

func (m *MockAppointmentEventPublisher) PublishAppointmentEvent(ctx context.Context, evt ports.AppointmentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the published events.
func (m *MockAppointmentEventPublisher) GetPublishedEvents() []ports.AppointmentEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.AppointmentEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockAppointmentEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
