package staff

type EmployeeRequest struct {
	Name          string `json:"name" validate:"notblank,max=120"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	ContactNumber string `json:"contact_number,omitempty" validate:"max=30"`
	Status        string `json:"status" validate:"oneof=full-time part-time"`
	Role          string `json:"role,omitempty" validate:"max=60"`
	JoinDate      string `json:"join_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Birthday      string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r EmployeeRequest) apply(e *Employee) {
	e.Name = r.Name
	e.Email = r.Email
	e.ContactNumber = r.ContactNumber
	e.Status = r.Status
	e.Role = r.Role
	e.JoinDate = r.JoinDate
	e.Birthday = r.Birthday
}
