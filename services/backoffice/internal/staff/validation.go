package staff

import (
	"context"
	"strings"

	"github.com/appetiteclub/staffops/pkg/validation"
)

// ValidateEmployee checks a create or replace payload after trimming it.
func ValidateEmployee(ctx context.Context, req *EmployeeRequest) []string {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	req.Role = strings.TrimSpace(req.Role)

	return validation.Struct(*req)
}

func ValidateStatusFilter(ctx context.Context, status string) []string {
	if status == "" || status == StatusFullTime || status == StatusPartTime {
		return nil
	}
	return []string{"status must be one of: full-time part-time"}
}
