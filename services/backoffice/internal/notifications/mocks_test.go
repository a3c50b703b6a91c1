package notifications

import (
	"context"
	"errors"
	"sync"

	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

var errDatabase = errors.New("database unavailable")

type MockNotificationRepo struct {
	mu        sync.Mutex
	items     []*Notification
	CreateErr error
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if n.SourceKey != "" {
		for _, existing := range m.items {
			if existing.SourceKey == n.SourceKey {
				return ErrDuplicateNotification
			}
		}
	}
	c := *n
	m.items = append(m.items, &c)
	return nil
}

func (m *MockNotificationRepo) List(ctx context.Context, filter Filter) ([]*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Notification{}
	for i := len(m.items) - 1; i >= 0; i-- {
		n := m.items[i]
		if filter.UnreadOnly && n.Read {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		c := *n
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CountUnread(m.items), nil
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := 0
	for _, n := range m.items {
		if !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

func (m *MockNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (m *MockNotificationRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MockNotificationRepo) add(n *Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, n)
}

type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}
