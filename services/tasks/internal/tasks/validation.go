package tasks

import (
	"context"
	"strings"

	"github.com/appetiteclub/staffops/pkg/enums/category"
	"github.com/appetiteclub/staffops/pkg/enums/station"
	"github.com/appetiteclub/staffops/pkg/enums/taskstatus"
	"github.com/appetiteclub/staffops/pkg/validation"
)

func ValidateTaskCreate(ctx context.Context, req TaskCreateRequest) []string {
	errors := validation.Struct(req)

	if code := strings.TrimSpace(req.QRCodeID); code != "" && strings.ContainsAny(code, " /") {
		errors = append(errors, "qr_code_id cannot contain spaces or slashes")
	}

	return errors
}

func ValidateTaskFilter(ctx context.Context, filter TaskFilter) []string {
	var errors []string

	if filter.Station != "" && !station.Valid(filter.Station) {
		errors = append(errors, "invalid station")
	}
	if filter.Category != "" && !category.Valid(filter.Category) {
		errors = append(errors, "invalid category")
	}
	if filter.Status != "" && taskstatus.ByName(filter.Status) == nil {
		errors = append(errors, "invalid status")
	}

	return errors
}
