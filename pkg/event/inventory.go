package event

import "time"

const (
	StaffInventoryTopic        = "staff.inventory"
	EventInventoryLevelChanged = "inventory.level.changed"
)

// InventoryLevelChangedEvent is emitted when an item moves between good, low and critical.
type InventoryLevelChangedEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	ItemID         string    `json:"item_id"`
	ProductName    string    `json:"product_name"`
	Station        string    `json:"station"`
	Delivered      int       `json:"delivered"`
	Unit           string    `json:"unit"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
}
