package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// State of a task confirmation session.
//
//	idle -> captured -> submitting -> completed
//	captured -> idle             (retake)
//	submitting -> failed -> submitting (retry)
//	failed -> idle               (retake)
//	any state but submitting -> cancelled
type State string

const (
	StateIdle       State = "idle"
	StateCaptured   State = "captured"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

type Photo struct {
	Data        []byte
	ContentType string
	CapturedAt  time.Time
}

// Session drives one scan-to-submit flow for a single task. It is not safe
// for concurrent use; SessionStore serializes access.
type Session struct {
	ID            uuid.UUID  `json:"id"`
	TaskID        uuid.UUID  `json:"task_id"`
	TaskName      string     `json:"task_name"`
	EmployeeID    string     `json:"employee_id,omitempty"`
	EmployeeName  string     `json:"employee_name,omitempty"`
	State         State      `json:"state"`
	ConfirmedName string     `json:"confirmed_name,omitempty"`
	HasPhoto      bool       `json:"has_photo"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	Retryable     bool       `json:"retryable,omitempty"`
	SubmissionID  *uuid.UUID `json:"submission_id,omitempty"`
	Message       string     `json:"message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ExpiresAt     time.Time  `json:"expires_at"`

	photo *Photo
}

func NewSession(task *Task, employeeID, employeeName string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           aqm.GenerateNewID(),
		TaskID:       task.ID,
		TaskName:     task.Name,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		State:        StateIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

func (s *Session) GetID() uuid.UUID {
	return s.ID
}

func (s *Session) ResourceType() string {
	return "session"
}

func (s *Session) Photo() *Photo {
	return s.photo
}

func (s *Session) transitionError(action string) error {
	if s.State == StateSubmitting {
		return ErrSubmissionInFlight
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.State)
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// Capture stores a photo. Only an idle session accepts one; a captured photo
// is replaced through Retake.
func (s *Session) Capture(p Photo) error {
	if s.State != StateIdle {
		return s.transitionError("capture")
	}
	if len(p.Data) == 0 {
		return ErrPhotoRequired
	}
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now()
	}
	s.photo = &p
	s.HasPhoto = true
	s.State = StateCaptured
	s.touch()
	return nil
}

// Retake discards the photo and the confirmed name.
func (s *Session) Retake() error {
	if s.State != StateCaptured && s.State != StateFailed {
		return s.transitionError("retake")
	}
	s.photo = nil
	s.HasPhoto = false
	s.ConfirmedName = ""
	s.LastError = ""
	s.Retryable = false
	s.State = StateIdle
	s.touch()
	return nil
}

// BeginSubmit moves to submitting. A blank name is rejected without any
// state change.
func (s *Session) BeginSubmit(confirmedName string) error {
	if s.State != StateCaptured && s.State != StateFailed {
		return s.transitionError("submit")
	}
	name := strings.TrimSpace(confirmedName)
	if name == "" {
		return ErrNameRequired
	}
	if s.photo == nil {
		return ErrPhotoRequired
	}
	s.ConfirmedName = name
	s.Attempts++
	s.LastError = ""
	s.Retryable = false
	s.State = StateSubmitting
	s.touch()
	return nil
}

func (s *Session) Complete(submission *TaskSubmission) error {
	if s.State != StateSubmitting {
		return s.transitionError("complete")
	}
	id := submission.ID
	s.SubmissionID = &id
	s.Message = submission.Confirmation()
	s.photo = nil
	s.State = StateCompleted
	s.touch()
	return nil
}

func (s *Session) Fail(cause error, retryable bool) error {
	if s.State != StateSubmitting {
		return s.transitionError("fail")
	}
	if cause != nil {
		s.LastError = cause.Error()
	}
	s.Retryable = retryable
	s.State = StateFailed
	s.touch()
	return nil
}

func (s *Session) Cancel() error {
	if s.State == StateSubmitting {
		return ErrSubmissionInFlight
	}
	s.photo = nil
	s.HasPhoto = false
	s.State = StateCancelled
	s.touch()
	return nil
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// snapshot returns a copy safe to hand out of the store.
func (s *Session) snapshot() *Session {
	c := *s
	if s.SubmissionID != nil {
		id := *s.SubmissionID
		c.SubmissionID = &id
	}
	return &c
}
