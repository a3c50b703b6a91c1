package finance

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
)

type MockReportRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*Report
	order   []uuid.UUID
}

func NewMockReportRepo() *MockReportRepo {
	return &MockReportRepo{reports: make(map[uuid.UUID]*Report)}
}

func (m *MockReportRepo) Create(ctx context.Context, report *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *report
	m.reports[report.ID] = &c
	m.order = append(m.order, report.ID)
	return nil
}

func (m *MockReportRepo) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (m *MockReportRepo) List(ctx context.Context, filter ReportFilter) ([]*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Report{}
	for _, id := range m.order {
		r := m.reports[id]
		if filter.Date != "" && r.ShiftDate != filter.Date {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		c := *r
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockReportRepo) SaveReview(ctx context.Context, report *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reports[report.ID]
	if !ok {
		return ErrReportNotFound
	}
	if stored.Status != reviewstatus.Statuses.Pending.Code() {
		return reviewstatus.ErrNotPending
	}
	c := *report
	m.reports[report.ID] = &c
	return nil
}

// mockDated stores any dated record kind for the list-by-date repos.
type mockDated[T any] struct {
	mu    sync.Mutex
	items []T
	date  func(T) string
}

func (m *mockDated[T]) Create(ctx context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *mockDated[T]) List(ctx context.Context, date string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []T{}
	for _, item := range m.items {
		if date == "" || m.date(item) == date {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockDated[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type MockFundRepo struct {
	mockDated[*ManagerFund]
}

type MockExpenseRepo struct {
	mockDated[*Expense]
}

type MockApepoRepo struct {
	mockDated[*ApepoReport]
}

func (m *MockApepoRepo) Get(ctx context.Context, id uuid.UUID) (*ApepoReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func newMockRepos() (*MockReportRepo, *MockFundRepo, *MockExpenseRepo, *MockApepoRepo) {
	funds := &MockFundRepo{}
	funds.date = func(f *ManagerFund) string { return f.Date }
	expenses := &MockExpenseRepo{}
	expenses.date = func(e *Expense) string { return e.Date }
	apepo := &MockApepoRepo{}
	apepo.date = func(a *ApepoReport) string { return a.Date }
	return NewMockReportRepo(), funds, expenses, apepo
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
