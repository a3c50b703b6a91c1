package payroll

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errDatabase = errors.New("database unavailable")

type MockEntryRepo struct {
	mu      sync.Mutex
	entries []*Entry
	ListErr error
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *entry
	m.entries = append(m.entries, &c)
	return nil
}

func (m *MockEntryRepo) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepo) List(ctx context.Context, period string) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := []*Entry{}
	for _, e := range m.entries {
		if period == "" || e.Period == period {
			c := *e
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *MockEntryRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
