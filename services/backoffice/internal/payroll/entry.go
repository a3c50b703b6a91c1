package payroll

import (
	"errors"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/services/backoffice/internal/money"
)

var (
	ErrEntryNotFound = errors.New("payroll entry not found")
	ErrInvalidDays   = errors.New("days worked must be greater than 0")
	ErrInvalidRate   = errors.New("pay rate must be greater than 0")
	ErrRatePrecision = errors.New("pay rate cannot have more than 2 decimal places")
)

// Entry is one employee's pay for a period. Entries are never edited;
// TotalPay is derived from the other fields and not persisted.
type Entry struct {
	ID           uuid.UUID    `json:"id" bson:"_id"`
	EmployeeID   *uuid.UUID   `json:"employee_id,omitempty" bson:"employee_id,omitempty"`
	EmployeeName string       `json:"employee_name" bson:"employee_name"`
	DaysWorked   int          `json:"days_worked" bson:"days_worked"`
	PayRate      money.Amount `json:"pay_rate" bson:"pay_rate"`
	TotalPay     money.Amount `json:"total_pay" bson:"-"`
	Period       string       `json:"period" bson:"period"`
	Currency     string       `json:"currency" bson:"currency"`
	CreatedBy    string       `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}

// TotalPay is days worked times the daily rate, rounded to centavos.
func TotalPay(daysWorked int, payRate money.Amount) money.Amount {
	return payRate.MulInt(daysWorked).Round()
}

func NewEntry(name string, days int, rate money.Amount, period, currency, by string, at time.Time) (*Entry, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	if !rate.IsPositive() {
		return nil, ErrInvalidRate
	}
	e := &Entry{
		ID:           aqm.GenerateNewID(),
		EmployeeName: name,
		DaysWorked:   days,
		PayRate:      rate,
		Period:       period,
		Currency:     currency,
		CreatedBy:    by,
		CreatedAt:    at,
	}
	e.Derive()
	return e, nil
}

func (e *Entry) GetID() uuid.UUID {
	return e.ID
}

func (e *Entry) ResourceType() string {
	return "payroll-entry"
}

func (e *Entry) Derive() {
	e.TotalPay = TotalPay(e.DaysWorked, e.PayRate)
}

type PeriodTotal struct {
	Period  string       `json:"period"`
	Entries int          `json:"entries"`
	Total   money.Amount `json:"total"`
}

type Summary struct {
	Currency     string        `json:"currency"`
	Entries      int           `json:"entries"`
	TotalPayroll money.Amount  `json:"total_payroll"`
	Periods      []PeriodTotal `json:"periods"`
}

// Summarize totals entries overall and per period. Periods keep the order
// in which they first appear in entries.
func Summarize(entries []*Entry, currency string) Summary {
	s := Summary{Currency: currency, Periods: []PeriodTotal{}}
	index := map[string]int{}
	for _, e := range entries {
		pay := TotalPay(e.DaysWorked, e.PayRate)
		s.Entries++
		s.TotalPayroll = s.TotalPayroll.Add(pay)

		i, ok := index[e.Period]
		if !ok {
			i = len(s.Periods)
			index[e.Period] = i
			s.Periods = append(s.Periods, PeriodTotal{Period: e.Period})
		}
		s.Periods[i].Entries++
		s.Periods[i].Total = s.Periods[i].Total.Add(pay)
	}
	return s
}
