package inventory

import "encoding/json"

type ItemCreateRequest struct {
	ProductName string      `json:"product_name" validate:"notblank"`
	Unit        string      `json:"unit,omitempty" validate:"omitempty,unit"`
	Station     string      `json:"station" validate:"station"`
	Sealed      *int        `json:"sealed" validate:"required,gte=0"`
	Loose       *int        `json:"loose" validate:"required,gte=0"`
	Thresholds  *Thresholds `json:"thresholds,omitempty"`
}

// FieldUpdateRequest carries a raw form value; Value may be a JSON string
// or number.
type FieldUpdateRequest struct {
	Field string          `json:"field" validate:"oneof=sealed loose"`
	Value json.RawMessage `json:"value"`
}

type AdjustRequest struct {
	Field string `json:"field" validate:"oneof=sealed loose"`
	Delta int    `json:"delta" validate:"ne=0"`
}

type OwnerDeliveryRequest struct {
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
	Date     string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type SnapshotRequest struct {
	Station string `json:"station,omitempty" validate:"omitempty,station"`
	Note    string `json:"note,omitempty"`
}

type WasteCreateRequest struct {
	ItemID      string `json:"item_id,omitempty" validate:"omitempty,uuid"`
	ProductName string `json:"product_name" validate:"notblank"`
	Station     string `json:"station" validate:"station"`
	Quantity    *int   `json:"quantity" validate:"required,gt=0"`
	Unit        string `json:"unit,omitempty" validate:"omitempty,unit"`
	Reason      string `json:"reason,omitempty"`
	PhotoRef    string `json:"photo_ref" validate:"notblank"`
}
