package staff

import (
	"errors"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	StatusFullTime = "full-time"
	StatusPartTime = "part-time"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateEmail   = errors.New("email already registered")
)

type Employee struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	Status        string    `json:"status" bson:"status"`
	Role          string    `json:"role,omitempty" bson:"role,omitempty"`
	JoinDate      string    `json:"join_date,omitempty" bson:"join_date,omitempty"`
	Birthday      string    `json:"birthday,omitempty" bson:"birthday,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

func NewEmployee(name, status string) *Employee {
	return &Employee{
		ID:     aqm.GenerateNewID(),
		Name:   name,
		Status: status,
	}
}

func (e *Employee) GetID() uuid.UUID {
	return e.ID
}

func (e *Employee) ResourceType() string {
	return "employee"
}

func (e *Employee) EnsureID() {
	if e.ID == uuid.Nil {
		e.ID = aqm.GenerateNewID()
	}
}

func (e *Employee) BeforeCreate() {
	e.EnsureID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
}

func (e *Employee) BeforeUpdate() {
	e.UpdatedAt = time.Now()
}

type Counts struct {
	Total    int `json:"total"`
	FullTime int `json:"full_time"`
	PartTime int `json:"part_time"`
}

func Count(employees []*Employee) Counts {
	c := Counts{Total: len(employees)}
	for _, e := range employees {
		switch e.Status {
		case StatusFullTime:
			c.FullTime++
		case StatusPartTime:
			c.PartTime++
		}
	}
	return c
}
