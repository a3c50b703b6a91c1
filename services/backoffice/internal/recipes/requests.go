package recipes

type WatchedRequest struct {
	EmployeeID   string `json:"employee_id,omitempty" validate:"max=120"`
	EmployeeName string `json:"employee_name,omitempty" validate:"max=120"`
}
