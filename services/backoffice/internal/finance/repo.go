package finance

import (
	"context"

	"github.com/google/uuid"
)

type ReportFilter struct {
	Date   string
	Status string
}

type ReportRepo interface {
	Create(ctx context.Context, report *Report) error
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, filter ReportFilter) ([]*Report, error)
	// SaveReview stores a reviewed report only if it is still pending,
	// otherwise it fails with reviewstatus.ErrNotPending.
	SaveReview(ctx context.Context, report *Report) error
}

type FundRepo interface {
	Create(ctx context.Context, fund *ManagerFund) error
	List(ctx context.Context, date string) ([]*ManagerFund, error)
}

type ExpenseRepo interface {
	Create(ctx context.Context, expense *Expense) error
	List(ctx context.Context, date string) ([]*Expense, error)
}

type ApepoRepo interface {
	Create(ctx context.Context, report *ApepoReport) error
	Get(ctx context.Context, id uuid.UUID) (*ApepoReport, error)
	List(ctx context.Context, date string) ([]*ApepoReport, error)
}

type Repos struct {
	ReportRepo  ReportRepo
	FundRepo    FundRepo
	ExpenseRepo ExpenseRepo
	ApepoRepo   ApepoRepo
}
