package tasks

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/taskstatus"
)

const (
	RepetitionDaily  = "daily"
	RepetitionWeekly = "weekly"
)

type Task struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	Name        string     `json:"name" bson:"name"`
	QRCodeID    string     `json:"qr_code_id" bson:"qr_code_id"`
	Station     string     `json:"station" bson:"station"`
	Category    string     `json:"category" bson:"category"`
	Description string     `json:"description" bson:"description"`
	Status      string     `json:"status" bson:"status"`
	Position    int        `json:"position" bson:"position"`
	AssignedBy  string     `json:"assigned_by,omitempty" bson:"assigned_by,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Repetition  string     `json:"repetition,omitempty" bson:"repetition,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty" bson:"completed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	UpdatedBy   string     `json:"updated_by" bson:"updated_by"`
}

func NewTask() *Task {
	return &Task{
		ID:     aqm.GenerateNewID(),
		Status: taskstatus.Statuses.Pending.Code(),
	}
}

func (t *Task) GetID() uuid.UUID {
	return t.ID
}

func (t *Task) ResourceType() string {
	return "task"
}

func (t *Task) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *Task) BeforeCreate() {
	t.EnsureID()
	if t.Status == "" {
		t.Status = taskstatus.Statuses.Pending.Code()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Task) IsCompleted() bool {
	return t.Status == taskstatus.Statuses.Completed.Code()
}

// MarkCompleted is the only status transition a task has.
func (t *Task) MarkCompleted(by string, at time.Time) error {
	if t.IsCompleted() {
		return ErrTaskAlreadyCompleted
	}
	t.Status = taskstatus.Statuses.Completed.Code()
	t.CompletedAt = &at
	t.CompletedBy = by
	t.UpdatedAt = at
	t.UpdatedBy = by
	return nil
}

// TaskSubmission is the append-only proof that a task was done.
type TaskSubmission struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	TaskID        uuid.UUID `json:"task_id" bson:"task_id"`
	TaskName      string    `json:"task_name" bson:"task_name"`
	Station       string    `json:"station" bson:"station"`
	Category      string    `json:"category" bson:"category"`
	EmployeeID    string    `json:"employee_id,omitempty" bson:"employee_id,omitempty"`
	EmployeeName  string    `json:"employee_name,omitempty" bson:"employee_name,omitempty"`
	ConfirmedName string    `json:"confirmed_name" bson:"confirmed_name"`
	PhotoURL      string    `json:"photo_url" bson:"photo_url"`
	PhotoKey      string    `json:"-" bson:"photo_key"`
	Verified      bool      `json:"verified" bson:"verified"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
}

func NewTaskSubmission(task *Task) *TaskSubmission {
	return &TaskSubmission{
		ID:       aqm.GenerateNewID(),
		TaskID:   task.ID,
		TaskName: task.Name,
		Station:  task.Station,
		Category: task.Category,
	}
}

func (s *TaskSubmission) GetID() uuid.UUID {
	return s.ID
}

func (s *TaskSubmission) ResourceType() string {
	return "submission"
}

// Confirmation is the message shown to staff once a submission lands,
// e.g. "Wipe counters verified by Jane Doe at 7:05 AM on Oct 16, 2026".
func (s *TaskSubmission) Confirmation() string {
	return s.TaskName + " verified by " + s.ConfirmedName +
		" at " + s.Timestamp.Format("3:04 PM") +
		" on " + s.Timestamp.Format("Jan 2, 2006")
}
