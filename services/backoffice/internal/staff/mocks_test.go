package staff

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MockEmployeeRepo struct {
	mu        sync.Mutex
	employees []*Employee
}

func (m *MockEmployeeRepo) Add(e *Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = append(m.employees, e)
}

func (m *MockEmployeeRepo) emailTaken(email string, except uuid.UUID) bool {
	if email == "" {
		return false
	}
	for _, e := range m.employees {
		if e.Email == email && e.ID != except {
			return true
		}
	}
	return false
}

func (m *MockEmployeeRepo) Create(ctx context.Context, employee *Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(employee.Email, employee.ID) {
		return ErrDuplicateEmail
	}
	c := *employee
	m.employees = append(m.employees, &c)
	return nil
}

func (m *MockEmployeeRepo) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockEmployeeRepo) List(ctx context.Context, status string) ([]*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Employee{}
	for _, e := range m.employees {
		if status == "" || e.Status == status {
			c := *e
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *MockEmployeeRepo) Update(ctx context.Context, employee *Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(employee.Email, employee.ID) {
		return ErrDuplicateEmail
	}
	for i, e := range m.employees {
		if e.ID == employee.ID {
			c := *employee
			m.employees[i] = &c
			return nil
		}
	}
	return ErrEmployeeNotFound
}

func (m *MockEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.employees {
		if e.ID == id {
			m.employees = append(m.employees[:i], m.employees[i+1:]...)
			return nil
		}
	}
	return ErrEmployeeNotFound
}

func (m *MockEmployeeRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.employees)
}

func newEmployee(name, status, email string) *Employee {
	e := NewEmployee(name, status)
	e.Email = email
	e.BeforeCreate()
	return e
}
