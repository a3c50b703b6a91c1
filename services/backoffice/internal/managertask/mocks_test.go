package managertask

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MockTaskRepo struct {
	mu    sync.Mutex
	tasks []*Task
}

func (m *MockTaskRepo) Create(ctx context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *task
	m.tasks = append(m.tasks, &c)
	return nil
}

func (m *MockTaskRepo) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockTaskRepo) List(ctx context.Context, filter Filter) ([]*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Task{}
	for _, t := range m.tasks {
		if filter.TaskType != "" && t.TaskType != filter.TaskType {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		c := *t
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockTaskRepo) Update(ctx context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == task.ID {
			c := *task
			m.tasks[i] = &c
			return nil
		}
	}
	return ErrTaskNotFound
}

func (m *MockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return ErrTaskNotFound
}
