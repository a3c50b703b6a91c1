package event

import "time"

const (
	StaffTasksTopic           = "staff.tasks"
	EventTaskCreated          = "task.created"
	EventTaskCompleted        = "task.completed"
	EventTaskSubmissionFailed = "task.submission.failed"
)

type TaskEventMetadata struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	TaskID     string    `json:"task_id"`
	TaskName   string    `json:"task_name"`
	Station    string    `json:"station"`
	Category   string    `json:"category"`
}

type TaskCreatedEvent struct {
	TaskEventMetadata
	QRCodeID   string `json:"qr_code_id"`
	AssignedBy string `json:"assigned_by,omitempty"`
}

type TaskCompletedEvent struct {
	TaskEventMetadata
	SubmissionID  string    `json:"submission_id"`
	EmployeeID    string    `json:"employee_id,omitempty"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	ConfirmedName string    `json:"confirmed_name"`
	PhotoURL      string    `json:"photo_url"`
	CompletedAt   time.Time `json:"completed_at"`
}

type TaskSubmissionFailedEvent struct {
	TaskEventMetadata
	SessionID string `json:"session_id"`
	Attempts  int    `json:"attempts"`
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable"`
}
