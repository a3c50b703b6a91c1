package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/services/backoffice/internal/managertask"
	"github.com/appetiteclub/staffops/services/backoffice/internal/payroll"
	"github.com/appetiteclub/staffops/services/backoffice/internal/requests"
	"github.com/appetiteclub/staffops/services/backoffice/internal/staff"
)

type EmployeeRepo struct {
	collection *mongo.Collection
}

func NewEmployeeRepo(db *mongo.Database) *EmployeeRepo {
	return &EmployeeRepo{collection: db.Collection(employeesCollection)}
}

func (r *EmployeeRepo) Create(ctx context.Context, employee *staff.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee is nil")
	}
	if _, err := r.collection.InsertOne(ctx, employee); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %s: %w", employee.Email, staff.ErrDuplicateEmail)
		}
		return fmt.Errorf("cannot create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) Get(ctx context.Context, id uuid.UUID) (*staff.Employee, error) {
	return findOne[staff.Employee](ctx, r.collection, bson.M{"_id": id}, "employee")
}

func (r *EmployeeRepo) List(ctx context.Context, status string) ([]*staff.Employee, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[staff.Employee](ctx, r.collection, query, opts, "employees")
}

func (r *EmployeeRepo) Update(ctx context.Context, employee *staff.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee is nil")
	}
	err := replaceByID(ctx, r.collection, employee.ID, employee, staff.ErrEmployeeNotFound)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %s: %w", employee.Email, staff.ErrDuplicateEmail)
		}
		return fmt.Errorf("cannot update employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, r.collection, id, staff.ErrEmployeeNotFound); err != nil {
		return fmt.Errorf("cannot delete employee: %w", err)
	}
	return nil
}

type PayrollRepo struct {
	collection *mongo.Collection
}

func NewPayrollRepo(db *mongo.Database) *PayrollRepo {
	return &PayrollRepo{collection: db.Collection(payrollCollection)}
}

func (r *PayrollRepo) Create(ctx context.Context, entry *payroll.Entry) error {
	if entry == nil {
		return fmt.Errorf("payroll entry is nil")
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("cannot create payroll entry: %w", err)
	}
	return nil
}

func (r *PayrollRepo) Get(ctx context.Context, id uuid.UUID) (*payroll.Entry, error) {
	entry, err := findOne[payroll.Entry](ctx, r.collection, bson.M{"_id": id}, "payroll entry")
	if entry != nil {
		entry.Derive()
	}
	return entry, err
}

func (r *PayrollRepo) List(ctx context.Context, period string) ([]*payroll.Entry, error) {
	query := bson.M{}
	if period != "" {
		query["period"] = period
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	entries, err := findAll[payroll.Entry](ctx, r.collection, query, opts, "payroll entries")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.Derive()
	}
	return entries, nil
}

type RequestRepo struct {
	collection *mongo.Collection
}

func NewRequestRepo(db *mongo.Database) *RequestRepo {
	return &RequestRepo{collection: db.Collection(requestsCollection)}
}

func (r *RequestRepo) Create(ctx context.Context, req *requests.ItemRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("cannot create request: %w", err)
	}
	return nil
}

func (r *RequestRepo) Get(ctx context.Context, id uuid.UUID) (*requests.ItemRequest, error) {
	return findOne[requests.ItemRequest](ctx, r.collection, bson.M{"_id": id}, "request")
}

func (r *RequestRepo) List(ctx context.Context, filter requests.Filter) ([]*requests.ItemRequest, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return findAll[requests.ItemRequest](ctx, r.collection, query, opts, "requests")
}

func (r *RequestRepo) SaveReview(ctx context.Context, req *requests.ItemRequest) error {
	set := bson.M{
		"status":      req.Status,
		"reviewed_by": req.ReviewedBy,
		"review_note": req.ReviewNote,
		"reviewed_at": req.ReviewedAt,
	}
	return saveReview(ctx, r.collection, req.ID, reviewstatus.Statuses.Pending.Code(), set,
		requests.ErrRequestNotFound, reviewstatus.ErrNotPending)
}

type ManagerTaskRepo struct {
	collection *mongo.Collection
}

func NewManagerTaskRepo(db *mongo.Database) *ManagerTaskRepo {
	return &ManagerTaskRepo{collection: db.Collection(managerTasksCollection)}
}

func (r *ManagerTaskRepo) Create(ctx context.Context, task *managertask.Task) error {
	if task == nil {
		return fmt.Errorf("manager task is nil")
	}
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("cannot create manager task: %w", err)
	}
	return nil
}

func (r *ManagerTaskRepo) Get(ctx context.Context, id uuid.UUID) (*managertask.Task, error) {
	return findOne[managertask.Task](ctx, r.collection, bson.M{"_id": id}, "manager task")
}

func (r *ManagerTaskRepo) List(ctx context.Context, filter managertask.Filter) ([]*managertask.Task, error) {
	query := bson.M{}
	if filter.TaskType != "" {
		query["task_type"] = filter.TaskType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[managertask.Task](ctx, r.collection, query, opts, "manager tasks")
}

func (r *ManagerTaskRepo) Update(ctx context.Context, task *managertask.Task) error {
	if task == nil {
		return fmt.Errorf("manager task is nil")
	}
	if err := replaceByID(ctx, r.collection, task.ID, task, managertask.ErrTaskNotFound); err != nil {
		return fmt.Errorf("cannot update manager task: %w", err)
	}
	return nil
}

func (r *ManagerTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, r.collection, id, managertask.ErrTaskNotFound); err != nil {
		return fmt.Errorf("cannot delete manager task: %w", err)
	}
	return nil
}
