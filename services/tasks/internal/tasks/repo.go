package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskFilter struct {
	Station  string
	Category string
	Status   string
}

type SubmissionFilter struct {
	TaskID     *uuid.UUID
	EmployeeID string
	Station    string
	Category   string
	From       *time.Time
	To         *time.Time
}

type TaskRepo interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	GetByQRCode(ctx context.Context, code string) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CompleteTask marks the submission's task completed and stores the
	// submission in one unit. It fails with ErrTaskAlreadyCompleted when
	// the task is no longer pending, leaving nothing written.
	CompleteTask(ctx context.Context, submission *TaskSubmission) (*Task, error)
}

type SubmissionRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*TaskSubmission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]*TaskSubmission, error)
}

type Repos struct {
	TaskRepo       TaskRepo
	SubmissionRepo SubmissionRepo
}
