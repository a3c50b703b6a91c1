package managertask

import (
	"context"
	"strings"

	"github.com/appetiteclub/staffops/pkg/enums/taskstatus"
	"github.com/appetiteclub/staffops/pkg/validation"
)

func ValidateAssign(ctx context.Context, req AssignRequest) []string {
	if strings.TrimSpace(req.Name) == "" {
		return []string{"please enter a task name"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return []string{"please enter a task description"}
	}

	errors := validation.Struct(req)

	if req.Day != "" && req.TaskType == TypeDaily {
		errors = append(errors, "day only applies to weekly tasks")
	}

	return errors
}

func ValidateFilter(ctx context.Context, filter Filter) []string {
	var errors []string

	if filter.TaskType != "" && filter.TaskType != TypeDaily && filter.TaskType != TypeWeekly {
		errors = append(errors, "task_type must be one of: daily weekly")
	}
	if filter.Status != "" && taskstatus.ByName(filter.Status) == nil {
		errors = append(errors, "invalid status")
	}

	return errors
}
