package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/services/tasks/internal/storage"
)

// MockTaskRepo is an in-memory TaskRepo that also keeps submissions so
// CompleteTask stays atomic under its lock.
type MockTaskRepo struct {
	mu          sync.Mutex
	tasks       map[uuid.UUID]*Task
	order       []uuid.UUID
	submissions []*TaskSubmission

	GetFunc          func(ctx context.Context, id uuid.UUID) (*Task, error)
	CreateFunc       func(ctx context.Context, task *Task) error
	ListFunc         func(ctx context.Context, filter TaskFilter) ([]*Task, error)
	CompleteTaskFunc func(ctx context.Context, submission *TaskSubmission) (*Task, error)
}

func NewMockTaskRepo() *MockTaskRepo {
	return &MockTaskRepo{
		tasks: make(map[uuid.UUID]*Task),
	}
}

// AddTask seeds the mock repository.
func (m *MockTaskRepo) AddTask(t *Task) *Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Status == "" {
		t.Status = "pending"
	}
	m.tasks[t.ID] = t
	m.order = append(m.order, t.ID)
	return t
}

func (m *MockTaskRepo) Create(ctx context.Context, task *Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tasks {
		if existing.QRCodeID == task.QRCodeID {
			return ErrDuplicateQRCode
		}
	}
	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	return nil
}

func (m *MockTaskRepo) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (m *MockTaskRepo) GetByQRCode(ctx context.Context, code string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.QRCodeID == code {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockTaskRepo) List(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*Task{}
	for _, id := range m.order {
		t, ok := m.tasks[id]
		if !ok {
			continue
		}
		if filter.Station != "" && t.Station != filter.Station {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
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

func (m *MockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *MockTaskRepo) CompleteTask(ctx context.Context, submission *TaskSubmission) (*Task, error) {
	if m.CompleteTaskFunc != nil {
		return m.CompleteTaskFunc(ctx, submission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[submission.TaskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := t.MarkCompleted(submission.ConfirmedName, submission.Timestamp); err != nil {
		return nil, err
	}
	m.submissions = append(m.submissions, submission)
	c := *t
	return &c, nil
}

func (m *MockTaskRepo) Submissions() []*TaskSubmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*TaskSubmission, len(m.submissions))
	copy(out, m.submissions)
	return out
}

// MockSubmissionRepo reads the submissions recorded by a MockTaskRepo.
type MockSubmissionRepo struct {
	tasks    *MockTaskRepo
	GetFunc  func(ctx context.Context, id uuid.UUID) (*TaskSubmission, error)
	ListFunc func(ctx context.Context, filter SubmissionFilter) ([]*TaskSubmission, error)
}

func NewMockSubmissionRepo(tasks *MockTaskRepo) *MockSubmissionRepo {
	return &MockSubmissionRepo{tasks: tasks}
}

func (m *MockSubmissionRepo) Get(ctx context.Context, id uuid.UUID) (*TaskSubmission, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	for _, s := range m.tasks.Submissions() {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSubmissionRepo) List(ctx context.Context, filter SubmissionFilter) ([]*TaskSubmission, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := []*TaskSubmission{}
	for _, s := range m.tasks.Submissions() {
		if filter.TaskID != nil && s.TaskID != *filter.TaskID {
			continue
		}
		if filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Station != "" && s.Station != filter.Station {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.From != nil && s.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.Timestamp.Before(*filter.To) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.PublishedEvents))
	copy(out, m.PublishedEvents)
	return out
}

// MockPhotoStorage keeps objects in memory. PutFunc overrides uploads.
type MockPhotoStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	puts    int
	deletes int

	PutFunc func(ctx context.Context, key, contentType string, data []byte) (storage.Object, error)
}

func NewMockPhotoStorage() *MockPhotoStorage {
	return &MockPhotoStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *MockPhotoStorage) Put(ctx context.Context, key, contentType string, data []byte) (storage.Object, error) {
	m.mu.Lock()
	m.puts++
	m.mu.Unlock()

	if m.PutFunc != nil {
		obj, err := m.PutFunc(ctx, key, contentType, data)
		if err != nil {
			return obj, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	m.types[key] = contentType
	return storage.Object{Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

func (m *MockPhotoStorage) Open(ctx context.Context, key string) (io.ReadCloser, storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.Object{}, storage.ErrNotFound
	}
	obj := storage.Object{Key: key, ContentType: m.types[key], Size: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), obj, nil
}

func (m *MockPhotoStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *MockPhotoStorage) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

func (m *MockPhotoStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

var errDatabase = errors.New("database error")

func newPendingTask(name, station, category string) *Task {
	t := NewTask()
	t.Name = name
	t.QRCodeID = "QR-" + t.ID.String()[:8]
	t.Station = station
	t.Category = category
	t.Description = name
	t.BeforeCreate()
	return t
}

func jpegPhoto() Photo {
	return Photo{
		Data:        []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
		ContentType: "image/jpeg",
		CapturedAt:  time.Now(),
	}
}

func fastOptions() SubmitterOptions {
	return SubmitterOptions{
		UploadTimeout: time.Second,
		UploadRetries: 2,
		UploadBackoff: time.Millisecond,
	}
}
