package requests

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
)

type MockRequestRepo struct {
	mu    sync.Mutex
	items []*ItemRequest
}

func (m *MockRequestRepo) Create(ctx context.Context, req *ItemRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *req
	m.items = append(m.items, &c)
	return nil
}

func (m *MockRequestRepo) Get(ctx context.Context, id uuid.UUID) (*ItemRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockRequestRepo) List(ctx context.Context, filter Filter) ([]*ItemRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*ItemRequest{}
	for i := len(m.items) - 1; i >= 0; i-- {
		r := m.items[i]
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && r.Priority != filter.Priority {
			continue
		}
		c := *r
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockRequestRepo) SaveReview(ctx context.Context, req *ItemRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.items {
		if r.ID != req.ID {
			continue
		}
		if r.Status != reviewstatus.Statuses.Pending.Code() {
			return reviewstatus.ErrNotPending
		}
		c := *req
		m.items[i] = &c
		return nil
	}
	return ErrRequestNotFound
}

func (m *MockRequestRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type publishedEvent struct {
	Topic   string
	Payload []byte
}

type MockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{Topic: topic, Payload: msg})
	return nil
}

func (m *MockPublisher) Events() []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedEvent(nil), m.events...)
}
