package notifications

import (
	"errors"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	TypeTaskCompleted        = "task_completed"
	TypeTaskSubmissionFailed = "task_submission_failed"
	TypeInventoryLow         = "inventory_low"
	TypeInventoryCritical    = "inventory_critical"
	TypeRequestCreated       = "request_created"
	TypeRequestApproved      = "request_approved"
	TypeRequestRejected      = "request_rejected"
	TypeFinanceReport        = "finance_report_submitted"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrDuplicateNotification means the source event was already turned
	// into a notification.
	ErrDuplicateNotification = errors.New("notification already recorded")
)

type Notification struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	Type         string    `json:"type" bson:"type"`
	Title        string    `json:"title" bson:"title"`
	Message      string    `json:"message" bson:"message"`
	TaskID       string    `json:"task_id,omitempty" bson:"task_id,omitempty"`
	TaskName     string    `json:"task_name,omitempty" bson:"task_name,omitempty"`
	EmployeeName string    `json:"employee_name,omitempty" bson:"employee_name,omitempty"`
	SubjectID    string    `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Read         bool      `json:"read" bson:"read"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	// SourceKey identifies the event that produced the notification so
	// redelivered events are stored once.
	SourceKey string `json:"-" bson:"source_key,omitempty"`
}

func New(kind, title, message string, at time.Time) *Notification {
	return &Notification{
		ID:        aqm.GenerateNewID(),
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: at,
	}
}

func (n *Notification) GetID() uuid.UUID {
	return n.ID
}

func (n *Notification) ResourceType() string {
	return "notification"
}

func CountUnread(list []*Notification) int {
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return unread
}
