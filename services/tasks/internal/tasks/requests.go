package tasks

type TaskCreateRequest struct {
	Name        string `json:"name" validate:"notblank"`
	QRCodeID    string `json:"qr_code_id,omitempty"`
	Station     string `json:"station" validate:"station"`
	Category    string `json:"category" validate:"category"`
	Description string `json:"description" validate:"notblank"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	Repetition  string `json:"repetition,omitempty" validate:"omitempty,oneof=daily weekly"`
	Position    int    `json:"position,omitempty" validate:"gte=0"`
}

type SessionStartRequest struct {
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

type SubmitRequest struct {
	ConfirmedName string `json:"confirmed_name"`
}
