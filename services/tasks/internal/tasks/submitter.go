package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/event"
	"github.com/appetiteclub/staffops/services/tasks/internal/storage"
)

const (
	DefaultUploadTimeout = 15 * time.Second
	DefaultUploadRetries = 2
	DefaultUploadBackoff = 250 * time.Millisecond
)

type SubmitterOptions struct {
	UploadTimeout time.Duration
	UploadRetries int
	UploadBackoff time.Duration
}

func (o SubmitterOptions) withDefaults() SubmitterOptions {
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = DefaultUploadTimeout
	}
	if o.UploadRetries < 0 {
		o.UploadRetries = 0
	}
	if o.UploadBackoff <= 0 {
		o.UploadBackoff = DefaultUploadBackoff
	}
	return o
}

// Submitter runs confirmation sessions: it owns the session store, uploads
// photos and completes tasks.
type Submitter struct {
	tasks     TaskRepo
	photos    storage.PhotoStorage
	sessions  *SessionStore
	publisher events.Publisher
	logger    aqm.Logger
	opts      SubmitterOptions
	now       func() time.Time
}

func NewSubmitter(
	tasks TaskRepo,
	photos storage.PhotoStorage,
	sessions *SessionStore,
	publisher events.Publisher,
	opts SubmitterOptions,
	logger aqm.Logger,
) *Submitter {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if sessions == nil {
		sessions = NewSessionStore(DefaultSessionTTL)
	}
	return &Submitter{
		tasks:     tasks,
		photos:    photos,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		opts:      opts.withDefaults(),
		now:       time.Now,
	}
}

func (s *Submitter) Sessions() *SessionStore {
	return s.sessions
}

// StartSession opens a session for a pending task.
func (s *Submitter) StartSession(ctx context.Context, taskID uuid.UUID, employeeID, employeeName string) (*Session, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("cannot load task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.IsCompleted() {
		return nil, ErrTaskAlreadyCompleted
	}

	session := NewSession(task, employeeID, employeeName, s.sessions.TTL())
	s.sessions.Create(session)
	s.logger.Debug("session started", "session_id", session.ID.String(), "task_id", task.ID.String())
	return session.snapshot(), nil
}

func (s *Submitter) Session(id uuid.UUID) (*Session, error) {
	return s.sessions.Get(id)
}

func (s *Submitter) Capture(id uuid.UUID, photo Photo) (*Session, error) {
	return s.sessions.Update(id, func(sess *Session) error {
		return sess.Capture(photo)
	})
}

func (s *Submitter) Retake(id uuid.UUID) (*Session, error) {
	return s.sessions.Update(id, func(sess *Session) error {
		return sess.Retake()
	})
}

// Cancel closes the session and forgets it.
func (s *Submitter) Cancel(id uuid.UUID) (*Session, error) {
	session, err := s.sessions.Update(id, func(sess *Session) error {
		return sess.Cancel()
	})
	if err != nil {
		return session, err
	}
	s.sessions.Delete(id)
	return session, nil
}

// Submit confirms the captured photo under confirmedName. At most one
// submit per session runs at a time: a concurrent call gets
// ErrSubmissionInFlight from the state machine.
func (s *Submitter) Submit(ctx context.Context, id uuid.UUID, confirmedName string) (*Session, *TaskSubmission, error) {
	session, err := s.sessions.Update(id, func(sess *Session) error {
		return sess.BeginSubmit(confirmedName)
	})
	if err != nil {
		return session, nil, err
	}
	log := s.logger.With("session_id", id.String(), "task_id", session.TaskID.String(), "attempt", session.Attempts)

	task, err := s.tasks.Get(ctx, session.TaskID)
	if err != nil {
		return s.fail(ctx, session, fmt.Errorf("cannot load task: %w", err), true)
	}
	if task == nil {
		return s.fail(ctx, session, ErrTaskNotFound, false)
	}
	if task.IsCompleted() {
		return s.fail(ctx, session, ErrTaskAlreadyCompleted, false)
	}

	photo := session.Photo()
	submission := NewTaskSubmission(task)
	submission.EmployeeID = session.EmployeeID
	submission.EmployeeName = session.EmployeeName
	submission.ConfirmedName = session.ConfirmedName

	key := photoKey(task, submission, photo.ContentType, s.now())
	obj, err := s.upload(ctx, key, photo)
	if err != nil {
		log.Error("photo upload failed", "error", err)
		retryable := storage.IsTransient(err) || errors.Is(err, context.Canceled)
		return s.fail(ctx, session, fmt.Errorf("%w: %v", ErrUploadFailed, err), retryable)
	}

	submission.PhotoKey = obj.Key
	submission.PhotoURL = "/submissions/" + submission.ID.String() + "/photo"
	submission.Verified = true
	submission.Timestamp = s.now()

	updated, err := s.tasks.CompleteTask(ctx, submission)
	if err != nil {
		s.discardPhoto(ctx, obj.Key)
		retryable := !errors.Is(err, ErrTaskAlreadyCompleted) && !errors.Is(err, ErrTaskNotFound)
		return s.fail(ctx, session, err, retryable)
	}

	session, err = s.sessions.Update(id, func(sess *Session) error {
		return sess.Complete(submission)
	})
	if err != nil {
		log.Error("cannot close completed session", "error", err)
	}

	s.publishCompleted(ctx, updated, submission)
	log.Info("task completed", "submission_id", submission.ID.String(), "confirmed_name", submission.ConfirmedName)
	return session, submission, nil
}

// SubmitOnce runs a whole session in one call for clients that already hold
// the photo and the confirmed name.
func (s *Submitter) SubmitOnce(ctx context.Context, taskID uuid.UUID, employeeID, employeeName, confirmedName string, photo Photo) (*Session, *TaskSubmission, error) {
	session, err := s.StartSession(ctx, taskID, employeeID, employeeName)
	if err != nil {
		return nil, nil, err
	}
	defer s.sessions.Delete(session.ID)

	if session, err = s.Capture(session.ID, photo); err != nil {
		return session, nil, err
	}
	return s.Submit(ctx, session.ID, confirmedName)
}

func (s *Submitter) upload(ctx context.Context, key string, photo *Photo) (storage.Object, error) {
	var lastErr error
	for attempt := 0; attempt <= s.opts.UploadRetries; attempt++ {
		if attempt > 0 {
			wait := s.opts.UploadBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return storage.Object{}, ctx.Err()
			case <-time.After(wait):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.UploadTimeout)
		obj, err := s.photos.Put(attemptCtx, key, photo.ContentType, photo.Data)
		cancel()
		if err == nil {
			return obj, nil
		}

		lastErr = err
		if !storage.IsTransient(err) || ctx.Err() != nil {
			break
		}
		s.logger.Info("retrying photo upload", "key", key, "attempt", attempt+1, "error", err)
	}
	return storage.Object{}, lastErr
}

func (s *Submitter) discardPhoto(ctx context.Context, key string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.UploadTimeout)
	defer cancel()
	if err := s.photos.Delete(cleanupCtx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("cannot discard orphan photo", "key", key, "error", err)
	}
}

func (s *Submitter) fail(ctx context.Context, session *Session, cause error, retryable bool) (*Session, *TaskSubmission, error) {
	failed, err := s.sessions.Update(session.ID, func(sess *Session) error {
		return sess.Fail(cause, retryable)
	})
	if err != nil {
		s.logger.Error("cannot mark session failed", "session_id", session.ID.String(), "error", err)
		failed = session
	}
	s.publishFailed(ctx, failed, cause, retryable)
	return failed, nil, cause
}

func (s *Submitter) publishCompleted(ctx context.Context, task *Task, submission *TaskSubmission) {
	if s.publisher == nil || task == nil {
		return
	}

	evt := event.TaskCompletedEvent{
		TaskEventMetadata: event.TaskEventMetadata{
			EventType:  event.EventTaskCompleted,
			OccurredAt: time.Now().UTC(),
			TaskID:     task.ID.String(),
			TaskName:   task.Name,
			Station:    task.Station,
			Category:   task.Category,
		},
		SubmissionID:  submission.ID.String(),
		EmployeeID:    submission.EmployeeID,
		EmployeeName:  submission.EmployeeName,
		ConfirmedName: submission.ConfirmedName,
		PhotoURL:      submission.PhotoURL,
		CompletedAt:   submission.Timestamp,
	}
	s.publish(ctx, evt, task.ID)
}

func (s *Submitter) publishFailed(ctx context.Context, session *Session, cause error, retryable bool) {
	if s.publisher == nil || session == nil {
		return
	}

	evt := event.TaskSubmissionFailedEvent{
		TaskEventMetadata: event.TaskEventMetadata{
			EventType:  event.EventTaskSubmissionFailed,
			OccurredAt: time.Now().UTC(),
			TaskID:     session.TaskID.String(),
			TaskName:   session.TaskName,
		},
		SessionID: session.ID.String(),
		Attempts:  session.Attempts,
		Reason:    cause.Error(),
		Retryable: retryable,
	}
	s.publish(ctx, evt, session.TaskID)
}

func (s *Submitter) publish(ctx context.Context, evt interface{}, taskID uuid.UUID) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal task event", "error", err, "task_id", taskID.String())
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event.StaffTasksTopic, payload); err != nil {
		s.logger.Error("cannot publish task event", "error", err, "task_id", taskID.String())
	}
}

func photoKey(task *Task, submission *TaskSubmission, contentType string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s%s", task.Station, at.Format("2006/01/02"), submission.ID.String(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
