package managertask

type AssignRequest struct {
	Name        string `json:"name" validate:"notblank,max=120"`
	Description string `json:"description" validate:"notblank,max=1000"`
	TaskType    string `json:"task_type" validate:"oneof=daily weekly"`
	Day         string `json:"day,omitempty" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
}
