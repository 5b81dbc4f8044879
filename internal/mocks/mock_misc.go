package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/authsvc/domain"
)

// MockNotificationService implements domain.NotificationService for testing.
type MockNotificationService struct {
	SendEmailFunc func(to, subject, body string) error
	SendSMSFunc   func(to, message string) error

	SentEmails []string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	m.SentEmails = append(m.SentEmails, to)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// MockThrottleStore implements domain.ThrottleStore for testing. The default
// behavior allows everything.
type MockThrottleStore struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

func NewMockThrottleStore() *MockThrottleStore {
	return &MockThrottleStore{}
}

func (m *MockThrottleStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, 0, nil
}

// MockEventPublisher implements domain.EventPublisher for testing. It records
// published events synchronously.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []*domain.Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(event *domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// ByType returns the recorded events of the given type.
func (m *MockEventPublisher) ByType(eventType domain.EventType) []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Event
	for _, e := range m.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
