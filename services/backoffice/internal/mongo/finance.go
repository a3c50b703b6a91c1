package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/services/backoffice/internal/finance"
)

type ReportRepo struct {
	collection *mongo.Collection
}

func NewReportRepo(db *mongo.Database) *ReportRepo {
	return &ReportRepo{collection: db.Collection(reportsCollection)}
}

func (r *ReportRepo) Create(ctx context.Context, report *finance.Report) error {
	if report == nil {
		return fmt.Errorf("financial report is nil")
	}
	report.Derive()
	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("cannot create financial report: %w", err)
	}
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, id uuid.UUID) (*finance.Report, error) {
	report, err := findOne[finance.Report](ctx, r.collection, bson.M{"_id": id}, "financial report")
	if report != nil {
		report.Derive()
	}
	return report, err
}

func (r *ReportRepo) List(ctx context.Context, filter finance.ReportFilter) ([]*finance.Report, error) {
	query := bson.M{}
	if filter.Date != "" {
		query["shift_date"] = filter.Date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	reports, err := findAll[finance.Report](ctx, r.collection, query, dateOrder("shift_date", "submitted_at"), "financial reports")
	if err != nil {
		return nil, err
	}
	for _, report := range reports {
		report.Derive()
	}
	return reports, nil
}

func (r *ReportRepo) SaveReview(ctx context.Context, report *finance.Report) error {
	set := bson.M{
		"status":      report.Status,
		"reviewed_by": report.ReviewedBy,
		"review_note": report.ReviewNote,
		"reviewed_at": report.ReviewedAt,
	}
	return saveReview(ctx, r.collection, report.ID, reviewstatus.Statuses.Pending.Code(), set,
		finance.ErrReportNotFound, reviewstatus.ErrNotPending)
}

type FundRepo struct {
	collection *mongo.Collection
}

func NewFundRepo(db *mongo.Database) *FundRepo {
	return &FundRepo{collection: db.Collection(fundsCollection)}
}

func (r *FundRepo) Create(ctx context.Context, fund *finance.ManagerFund) error {
	if _, err := r.collection.InsertOne(ctx, fund); err != nil {
		return fmt.Errorf("cannot create manager fund: %w", err)
	}
	return nil
}

func (r *FundRepo) List(ctx context.Context, date string) ([]*finance.ManagerFund, error) {
	return findAll[finance.ManagerFund](ctx, r.collection, dateQuery(date), dateOrder("date", "submitted_at"), "manager funds")
}

type ExpenseRepo struct {
	collection *mongo.Collection
}

func NewExpenseRepo(db *mongo.Database) *ExpenseRepo {
	return &ExpenseRepo{collection: db.Collection(expensesCollection)}
}

func (r *ExpenseRepo) Create(ctx context.Context, expense *finance.Expense) error {
	if _, err := r.collection.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("cannot create expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) List(ctx context.Context, date string) ([]*finance.Expense, error) {
	return findAll[finance.Expense](ctx, r.collection, dateQuery(date), dateOrder("date", "submitted_at"), "expenses")
}

type ApepoRepo struct {
	collection *mongo.Collection
}

func NewApepoRepo(db *mongo.Database) *ApepoRepo {
	return &ApepoRepo{collection: db.Collection(apepoCollection)}
}

func (r *ApepoRepo) Create(ctx context.Context, report *finance.ApepoReport) error {
	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("cannot create APEPO report: %w", err)
	}
	return nil
}

func (r *ApepoRepo) Get(ctx context.Context, id uuid.UUID) (*finance.ApepoReport, error) {
	return findOne[finance.ApepoReport](ctx, r.collection, bson.M{"_id": id}, "APEPO report")
}

func (r *ApepoRepo) List(ctx context.Context, date string) ([]*finance.ApepoReport, error) {
	return findAll[finance.ApepoReport](ctx, r.collection, dateQuery(date), dateOrder("date", "submitted_at"), "APEPO reports")
}

func NewFinanceRepos(db *mongo.Database) finance.Repos {
	return finance.Repos{
		ReportRepo:  NewReportRepo(db),
		FundRepo:    NewFundRepo(db),
		ExpenseRepo: NewExpenseRepo(db),
		ApepoRepo:   NewApepoRepo(db),
	}
}

func dateQuery(date string) bson.M {
	if date == "" {
		return bson.M{}
	}
	return bson.M{"date": date}
}
