package event

import "time"

const (
	StaffFinanceTopic           = "staff.finance"
	EventFinanceReportSubmitted = "finance.report.submitted"
	EventFinanceReportReviewed  = "finance.report.reviewed"
)

type FinanceReportEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	ReportID      string    `json:"report_id"`
	ShiftDate     string    `json:"shift_date"`
	DailyEarnings string    `json:"daily_earnings"`
	Status        string    `json:"status"`
	SubmittedBy   string    `json:"submitted_by,omitempty"`
	ReviewedBy    string    `json:"reviewed_by,omitempty"`
}
