package requests

import (
	"context"
	"strings"

	"github.com/appetiteclub/staffops/pkg/enums/priority"
	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/pkg/validation"
)

const msgItemAndQuantity = "please fill in item name and quantity"

func ValidateCreate(ctx context.Context, req CreateRequest) []string {
	errors := validation.Struct(req)
	if len(errors) == 0 {
		return nil
	}
	if req.Quantity == nil || *req.Quantity <= 0 || strings.TrimSpace(req.ItemName) == "" {
		return append([]string{msgItemAndQuantity}, errors...)
	}
	return errors
}

func ValidateReview(ctx context.Context, req ReviewRequest) []string {
	return validation.Struct(req)
}

func ValidateFilter(ctx context.Context, filter Filter) []string {
	var errors []string

	if filter.Status != "" && !reviewstatus.Valid(filter.Status) {
		errors = append(errors, "invalid status")
	}
	if filter.Priority != "" && !priority.Valid(filter.Priority) {
		errors = append(errors, "invalid priority")
	}

	return errors
}
