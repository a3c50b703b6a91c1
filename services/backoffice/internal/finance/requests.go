package finance

import "github.com/appetiteclub/staffops/services/backoffice/internal/money"

type TriadRequest struct {
	Cash          *money.Amount `json:"cash" validate:"required"`
	DigitalWallet *money.Amount `json:"digital_wallet" validate:"required"`
	BankAmount    *money.Amount `json:"bank_amount" validate:"required"`
}

func (t *TriadRequest) triad() ShiftTriad {
	return ShiftTriad{
		Cash:          *t.Cash,
		DigitalWallet: *t.DigitalWallet,
		BankAmount:    *t.BankAmount,
	}
}

func (t *TriadRequest) complete() bool {
	return t != nil && t.Cash != nil && t.DigitalWallet != nil && t.BankAmount != nil
}

// ReportSubmitRequest carries no status: new reports are always pending.
type ReportSubmitRequest struct {
	ShiftDate       string        `json:"shift_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Opening         *TriadRequest `json:"opening"`
	Closing         *TriadRequest `json:"closing"`
	OpeningTurnover *TriadRequest `json:"opening_turnover,omitempty"`
	ClosingTurnover *TriadRequest `json:"closing_turnover,omitempty"`
	OpeningPhotoRef string        `json:"opening_photo_ref,omitempty"`
	ClosingPhotoRef string        `json:"closing_photo_ref,omitempty"`
}

type ReviewRequest struct {
	Note string `json:"note,omitempty" validate:"max=500"`
}

type FundSubmitRequest struct {
	Date       string        `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount     *money.Amount `json:"amount" validate:"required"`
	ReceiptRef string        `json:"receipt_ref" validate:"notblank"`
}

type ExpenseSubmitRequest struct {
	Date    string        `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Details string        `json:"details" validate:"notblank"`
	Amount  *money.Amount `json:"amount,omitempty"`
}

type ApepoSubmitRequest struct {
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Audit     string `json:"audit" validate:"notblank"`
	People    string `json:"people" validate:"notblank"`
	Equipment string `json:"equipment" validate:"notblank"`
	Product   string `json:"product" validate:"notblank"`
	Others    string `json:"others" validate:"notblank"`
}
