package inventory

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	StatusGood     = "good"
	StatusLow      = "low"
	StatusCritical = "critical"
)

// Item is one product's physical count at a station. Delivered is always
// Sealed + Loose and Status always follows the threshold policy; neither is
// accepted from clients.
type Item struct {
	ID                 uuid.UUID   `json:"id" bson:"_id"`
	ProductName        string      `json:"product_name" bson:"product_name"`
	Unit               string      `json:"unit" bson:"unit"`
	Station            string      `json:"station" bson:"station"`
	Sealed             int         `json:"sealed" bson:"sealed"`
	Loose              int         `json:"loose" bson:"loose"`
	Delivered          int         `json:"delivered" bson:"delivered"`
	DateDelivered      string      `json:"date_delivered" bson:"date_delivered"`
	Status             string      `json:"status" bson:"status"`
	OwnerDelivered     *int        `json:"owner_delivered,omitempty" bson:"owner_delivered,omitempty"`
	OwnerDateDelivered string      `json:"owner_date_delivered,omitempty" bson:"owner_date_delivered,omitempty"`
	Thresholds         *Thresholds `json:"thresholds,omitempty" bson:"thresholds,omitempty"`
	CreatedAt          time.Time   `json:"created_at" bson:"created_at"`
	CreatedBy          string      `json:"created_by" bson:"created_by"`
	UpdatedAt          time.Time   `json:"updated_at" bson:"updated_at"`
	UpdatedBy          string      `json:"updated_by" bson:"updated_by"`
}

func NewItem() *Item {
	return &Item{
		ID:     aqm.GenerateNewID(),
		Status: StatusGood,
	}
}

func (i *Item) GetID() uuid.UUID {
	return i.ID
}

func (i *Item) ResourceType() string {
	return "inventory-item"
}

func (i *Item) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = aqm.GenerateNewID()
	}
}

func (i *Item) BeforeCreate() {
	i.EnsureID()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
}

// Derive restores Delivered from the two count buckets.
func (i *Item) Derive() {
	i.Delivered = i.Sealed + i.Loose
}

func (i *Item) clone() *Item {
	c := *i
	if i.OwnerDelivered != nil {
		v := *i.OwnerDelivered
		c.OwnerDelivered = &v
	}
	if i.Thresholds != nil {
		t := *i.Thresholds
		c.Thresholds = &t
	}
	return &c
}

// DateOf formats the calendar day of t as stored in date fields.
func DateOf(t time.Time) string {
	return t.Format(time.DateOnly)
}
