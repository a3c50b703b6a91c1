package event

import "time"

const (
	StaffRequestsTopic  = "staff.requests"
	EventRequestCreated = "request.created"
	EventRequestReview  = "request.reviewed"
)

type RequestEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	RequestID   string    `json:"request_id"`
	ItemName    string    `json:"item_name"`
	Quantity    int       `json:"quantity"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ManagerName string    `json:"manager_name,omitempty"`
	ReviewedBy  string    `json:"reviewed_by,omitempty"`
}
