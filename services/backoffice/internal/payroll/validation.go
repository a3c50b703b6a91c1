package payroll

import (
	"context"

	"github.com/appetiteclub/staffops/pkg/validation"
)

func ValidateEntryCreate(ctx context.Context, req EntryCreateRequest) []string {
	errors := validation.Struct(req)

	if req.PayRate != nil && !req.PayRate.IsPositive() {
		errors = append(errors, ErrInvalidRate.Error())
	}
	if req.PayRate != nil && !req.PayRate.InCentavos() {
		errors = append(errors, ErrRatePrecision.Error())
	}

	return errors
}
