package inventory

import (
	"context"
	"strings"

	"github.com/appetiteclub/staffops/pkg/enums/station"
	"github.com/appetiteclub/staffops/pkg/validation"
)

func ValidateItemCreate(ctx context.Context, req ItemCreateRequest) []string {
	errors := validation.Struct(req)

	if req.Thresholds != nil && !req.Thresholds.Valid() {
		errors = append(errors, "thresholds low must be at least critical and both non-negative")
	}

	return errors
}

// ValidateFieldUpdate only checks the field name; the value keeps form
// semantics and is read with ParseCount.
func ValidateFieldUpdate(ctx context.Context, req FieldUpdateRequest) []string {
	errors := validation.Struct(req)

	if len(req.Value) == 0 {
		errors = append(errors, "value is required")
	}

	return errors
}

func ValidateAdjust(ctx context.Context, req AdjustRequest) []string {
	return validation.Struct(req)
}

func ValidateOwnerDelivery(ctx context.Context, req OwnerDeliveryRequest) []string {
	return validation.Struct(req)
}

func ValidateSnapshot(ctx context.Context, req SnapshotRequest) []string {
	return validation.Struct(req)
}

func ValidateWasteCreate(ctx context.Context, req WasteCreateRequest) []string {
	return validation.Struct(req)
}

func ValidateItemFilter(ctx context.Context, filter ItemFilter) []string {
	var errors []string

	if filter.Station != "" && !station.Valid(filter.Station) {
		errors = append(errors, "invalid station")
	}
	switch filter.Status {
	case "", StatusGood, StatusLow, StatusCritical:
	default:
		errors = append(errors, "invalid status")
	}

	return errors
}

// formValue unwraps a JSON string or number into the text a form would send.
func formValue(raw []byte) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}
