// Package requests handles the supply requests managers raise for the
// owner to approve or reject.
package requests

import (
	"errors"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/enums/priority"
	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
)

var ErrRequestNotFound = errors.New("request not found")

type ItemRequest struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	ManagerID   string     `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	ManagerName string     `json:"manager_name" bson:"manager_name"`
	ItemName    string     `json:"item_name" bson:"item_name"`
	Quantity    int        `json:"quantity" bson:"quantity"`
	Unit        string     `json:"unit,omitempty" bson:"unit,omitempty"`
	Priority    string     `json:"priority" bson:"priority"`
	Remarks     string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	Status      string     `json:"status" bson:"status"`
	Timestamp   time.Time  `json:"timestamp" bson:"timestamp"`
	ReviewedBy  string     `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewNote  string     `json:"review_note,omitempty" bson:"review_note,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}

// NewItemRequest starts a request as pending; priority defaults to medium.
func NewItemRequest(itemName string, quantity int, at time.Time) *ItemRequest {
	return &ItemRequest{
		ID:        aqm.GenerateNewID(),
		ItemName:  itemName,
		Quantity:  quantity,
		Priority:  priority.Priorities.Medium.Code(),
		Status:    reviewstatus.Statuses.Pending.Code(),
		Timestamp: at,
	}
}

func (r *ItemRequest) GetID() uuid.UUID {
	return r.ID
}

func (r *ItemRequest) ResourceType() string {
	return "item-request"
}

func (r *ItemRequest) Review(approve bool, by, note string, at time.Time) error {
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

type Counts struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	HighPriority int `json:"high_priority"`
}

func Count(items []*ItemRequest) Counts {
	c := Counts{Total: len(items)}
	for _, r := range items {
		if r.Status == reviewstatus.Statuses.Pending.Code() {
			c.Pending++
		}
		if r.Priority == priority.Priorities.High.Code() {
			c.HighPriority++
		}
	}
	return c
}
