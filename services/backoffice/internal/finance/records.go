package finance

import (
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/services/backoffice/internal/money"
)

// ManagerFund is the daily float a manager declares, backed by a receipt.
type ManagerFund struct {
	ID          uuid.UUID    `json:"id" bson:"_id"`
	Date        string       `json:"date" bson:"date"`
	Amount      money.Amount `json:"amount" bson:"amount"`
	ReceiptRef  string       `json:"receipt_ref" bson:"receipt_ref"`
	SubmittedBy string       `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt time.Time    `json:"submitted_at" bson:"submitted_at"`
}

func (f *ManagerFund) GetID() uuid.UUID {
	return f.ID
}

func (f *ManagerFund) ResourceType() string {
	return "manager-fund"
}

type Expense struct {
	ID          uuid.UUID     `json:"id" bson:"_id"`
	Date        string        `json:"date" bson:"date"`
	Details     string        `json:"details" bson:"details"`
	Amount      *money.Amount `json:"amount,omitempty" bson:"amount,omitempty"`
	SubmittedBy string        `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt time.Time     `json:"submitted_at" bson:"submitted_at"`
}

func (e *Expense) GetID() uuid.UUID {
	return e.ID
}

func (e *Expense) ResourceType() string {
	return "expense"
}

// ApepoReport is the manager's Audit, People, Equipment, Product, Others
// write-up for a day.
type ApepoReport struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Date        string    `json:"date" bson:"date"`
	Audit       string    `json:"audit" bson:"audit"`
	People      string    `json:"people" bson:"people"`
	Equipment   string    `json:"equipment" bson:"equipment"`
	Product     string    `json:"product" bson:"product"`
	Others      string    `json:"others" bson:"others"`
	SubmittedBy string    `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

func (a *ApepoReport) GetID() uuid.UUID {
	return a.ID
}

func (a *ApepoReport) ResourceType() string {
	return "apepo-report"
}
