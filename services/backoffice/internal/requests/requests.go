package requests

type CreateRequest struct {
	ItemName    string `json:"item_name" validate:"notblank,max=120"`
	Quantity    *int   `json:"quantity" validate:"required,gt=0"`
	Unit        string `json:"unit,omitempty" validate:"max=30"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Remarks     string `json:"remarks,omitempty" validate:"max=500"`
	ManagerName string `json:"manager_name,omitempty" validate:"max=120"`
}

type ReviewRequest struct {
	Note string `json:"note,omitempty" validate:"max=500"`
}
