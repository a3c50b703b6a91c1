// Package managertask tracks the daily and weekly duties the owner assigns
// to managers.
package managertask

import (
	"errors"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/taskstatus"
)

const (
	TypeDaily  = "daily"
	TypeWeekly = "weekly"
)

var ErrTaskNotFound = errors.New("manager task not found")

type Task struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Description  string     `json:"description" bson:"description"`
	TaskType     string     `json:"task_type" bson:"task_type"`
	Day          string     `json:"day,omitempty" bson:"day,omitempty"`
	AssignedDate string     `json:"assigned_date" bson:"assigned_date"`
	AssignedBy   string     `json:"assigned_by,omitempty" bson:"assigned_by,omitempty"`
	Status       string     `json:"status" bson:"status"`
	CompletedBy  string     `json:"completed_by,omitempty" bson:"completed_by,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

func NewTask(name, description, taskType string, at time.Time) *Task {
	return &Task{
		ID:           aqm.GenerateNewID(),
		Name:         name,
		Description:  description,
		TaskType:     taskType,
		AssignedDate: at.Format(time.DateOnly),
		Status:       taskstatus.Statuses.Pending.Code(),
		CreatedAt:    at,
	}
}

func (t *Task) GetID() uuid.UUID {
	return t.ID
}

func (t *Task) ResourceType() string {
	return "manager-task"
}

func (t *Task) Completed() bool {
	return t.Status == taskstatus.Statuses.Completed.Code()
}

// Toggle flips completion. Reopening clears who completed it and when.
func (t *Task) Toggle(by string, at time.Time) {
	if t.Completed() {
		t.Status = taskstatus.Statuses.Pending.Code()
		t.CompletedBy = ""
		t.CompletedAt = nil
		return
	}
	t.Status = taskstatus.Statuses.Completed.Code()
	t.CompletedBy = by
	t.CompletedAt = &at
}

// Split separates pending from completed, keeping the input order.
func Split(tasks []*Task) (pending, completed []*Task) {
	pending, completed = []*Task{}, []*Task{}
	for _, t := range tasks {
		if t.Completed() {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}
