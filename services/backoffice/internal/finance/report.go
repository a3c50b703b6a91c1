package finance

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/services/backoffice/internal/money"
)

// Report is a manager's opening and closing count for one shift date.
type Report struct {
	ID              uuid.UUID    `json:"id" bson:"_id"`
	ShiftDate       string       `json:"shift_date" bson:"shift_date"`
	Opening         ShiftTriad   `json:"opening" bson:"opening"`
	Closing         ShiftTriad   `json:"closing" bson:"closing"`
	OpeningTurnover *ShiftTriad  `json:"opening_turnover,omitempty" bson:"opening_turnover,omitempty"`
	ClosingTurnover *ShiftTriad  `json:"closing_turnover,omitempty" bson:"closing_turnover,omitempty"`
	OpeningTotal    money.Amount `json:"opening_total" bson:"opening_total"`
	ClosingTotal    money.Amount `json:"closing_total" bson:"closing_total"`
	DailyEarnings   money.Amount `json:"daily_earnings" bson:"daily_earnings"`
	OpeningPhotoRef string       `json:"opening_photo_ref,omitempty" bson:"opening_photo_ref,omitempty"`
	ClosingPhotoRef string       `json:"closing_photo_ref,omitempty" bson:"closing_photo_ref,omitempty"`
	Status          string       `json:"status" bson:"status"`
	SubmittedBy     string       `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt     time.Time    `json:"submitted_at" bson:"submitted_at"`
	ReviewedBy      string       `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewNote      string       `json:"review_note,omitempty" bson:"review_note,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}

// NewReport derives the totals and always starts the report as pending.
func NewReport(shiftDate string, opening, closing ShiftTriad, by string, at time.Time) *Report {
	r := &Report{
		ID:          aqm.GenerateNewID(),
		ShiftDate:   shiftDate,
		Opening:     opening,
		Closing:     closing,
		Status:      reviewstatus.Statuses.Pending.Code(),
		SubmittedBy: by,
		SubmittedAt: at,
	}
	r.Derive()
	return r
}

func (r *Report) GetID() uuid.UUID {
	return r.ID
}

func (r *Report) ResourceType() string {
	return "financial-report"
}

func (r *Report) Derive() {
	r.OpeningTotal = ShiftTotal(r.Opening)
	r.ClosingTotal = ShiftTotal(r.Closing)
	r.DailyEarnings = DailyEarnings(r.Opening, r.Closing)
}

// Review records the owner's decision on a pending report.
func (r *Report) Review(approve bool, by, note string, at time.Time) error {
	status, err := reviewstatus.Decide(r.Status, approve)
	if err != nil {
		return err
	}
	r.Status = status
	r.ReviewedBy = by
	r.ReviewNote = note
	r.ReviewedAt = &at
	return nil
}
