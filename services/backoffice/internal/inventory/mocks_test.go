package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errDatabase = errors.New("database unavailable")

type MockItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Item
	order []uuid.UUID

	ListFunc   func(ctx context.Context, filter ItemFilter) ([]*Item, error)
	UpdateFunc func(ctx context.Context, item *Item) error
}

func NewMockItemRepo() *MockItemRepo {
	return &MockItemRepo{items: make(map[uuid.UUID]*Item)}
}

func (m *MockItemRepo) Add(item *Item) *Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.Derive()
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	return item
}

func (m *MockItemRepo) Create(ctx context.Context, item *Item) error {
	m.Add(item)
	return nil
}

func (m *MockItemRepo) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return item.clone(), nil
}

func (m *MockItemRepo) List(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Item{}
	for _, id := range m.order {
		item, ok := m.items[id]
		if !ok {
			continue
		}
		if filter.Station != "" && item.Station != filter.Station {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		result = append(result, item.clone())
	}
	return result, nil
}

func (m *MockItemRepo) Update(ctx context.Context, item *Item) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	m.items[item.ID] = item.clone()
	return nil
}

func (m *MockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockItemRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			delete(m.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockItemRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type MockSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []*Snapshot
}

func (m *MockSnapshotRepo) Create(ctx context.Context, snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *MockSnapshotRepo) List(ctx context.Context, station string) ([]*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Snapshot{}
	for _, s := range m.snapshots {
		if station == "" || s.Station == station {
			result = append(result, s)
		}
	}
	return result, nil
}

type MockWasteRepo struct {
	mu      sync.Mutex
	reports []*WasteReport
}

func (m *MockWasteRepo) Create(ctx context.Context, report *WasteReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

func (m *MockWasteRepo) List(ctx context.Context, station string) ([]*WasteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*WasteReport{}
	for _, r := range m.reports {
		if station == "" || r.Station == station {
			result = append(result, r)
		}
	}
	return result, nil
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

func newItem(name, station, unitName string, sealed, loose int) *Item {
	item := NewItem()
	item.ProductName = name
	item.Station = station
	item.Unit = unitName
	item.Sealed = sealed
	item.Loose = loose
	item.Derive()
	item.Status = DefaultThresholdPolicy().Classify(item)
	return item
}
