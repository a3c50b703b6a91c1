package finance

import (
	"context"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/pkg/validation"
)

const (
	msgFinancialFields = "please fill in all financial fields"
	msgApepoFields     = "please fill in all APEPO fields"
	msgNegativeAmount  = "amounts cannot be negative"
	msgAmountPrecision = "amounts cannot have more than 2 decimal places"
)

// ValidateReportSubmit requires all six opening and closing amounts. The
// turnover blocks are optional, but all or nothing when sent.
func ValidateReportSubmit(ctx context.Context, req ReportSubmitRequest) []string {
	if !req.Opening.complete() || !req.Closing.complete() {
		return []string{msgFinancialFields}
	}
	for _, turnover := range []*TriadRequest{req.OpeningTurnover, req.ClosingTurnover} {
		if turnover != nil && !turnover.complete() {
			return []string{msgFinancialFields}
		}
	}

	errors := validation.Struct(req)

	for _, t := range []*TriadRequest{req.Opening, req.Closing, req.OpeningTurnover, req.ClosingTurnover} {
		if t != nil && t.triad().hasNegative() {
			errors = append(errors, msgNegativeAmount)
			break
		}
	}
	for _, t := range []*TriadRequest{req.Opening, req.Closing, req.OpeningTurnover, req.ClosingTurnover} {
		if t != nil && !t.triad().inCentavos() {
			errors = append(errors, msgAmountPrecision)
			break
		}
	}

	return errors
}

func ValidateReview(ctx context.Context, req ReviewRequest) []string {
	return validation.Struct(req)
}

func ValidateFundSubmit(ctx context.Context, req FundSubmitRequest) []string {
	errors := validation.Struct(req)

	if req.Amount != nil && !req.Amount.IsPositive() {
		errors = append(errors, "amount must be greater than 0")
	}
	if req.Amount != nil && !req.Amount.InCentavos() {
		errors = append(errors, msgAmountPrecision)
	}

	return errors
}

func ValidateExpenseSubmit(ctx context.Context, req ExpenseSubmitRequest) []string {
	errors := validation.Struct(req)

	if req.Amount != nil && req.Amount.IsNegative() {
		errors = append(errors, msgNegativeAmount)
	}
	if req.Amount != nil && !req.Amount.InCentavos() {
		errors = append(errors, msgAmountPrecision)
	}

	return errors
}

// ValidateApepoSubmit reports a single message when any section is blank.
func ValidateApepoSubmit(ctx context.Context, req ApepoSubmitRequest) []string {
	errors := validation.Struct(req)
	if len(errors) > 0 {
		return append([]string{msgApepoFields}, errors...)
	}
	return nil
}

func ValidateReportFilter(ctx context.Context, filter ReportFilter) []string {
	var errors []string

	if filter.Status != "" && !reviewstatus.Valid(filter.Status) {
		errors = append(errors, "invalid status")
	}
	if filter.Date != "" && !validDate(filter.Date) {
		errors = append(errors, "date must be YYYY-MM-DD")
	}

	return errors
}
