package payroll

import (
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/services/backoffice/internal/money"
)

type EntryCreateRequest struct {
	EmployeeID   *uuid.UUID    `json:"employee_id,omitempty"`
	EmployeeName string        `json:"employee_name" validate:"notblank,max=120"`
	DaysWorked   *int          `json:"days_worked" validate:"required,gt=0,lte=366"`
	PayRate      *money.Amount `json:"pay_rate" validate:"required"`
	Period       string        `json:"period" validate:"notblank,max=60"`
}
