package tasks

import (
	"fmt"

	"github.com/appetiteclub/staffops/pkg/enums/category"
	"github.com/appetiteclub/staffops/pkg/enums/station"
)

// FilterTasks returns the tasks of one station and category, keeping their order.
func FilterTasks(tasks []*Task, stationName, categoryName string) []*Task {
	result := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.Station == stationName && t.Category == categoryName {
			result = append(result, t)
		}
	}
	return result
}

func CountCompleted(tasks []*Task) int {
	count := 0
	for _, t := range tasks {
		if t != nil && t.IsCompleted() {
			count++
		}
	}
	return count
}

type Progress struct {
	Station   string  `json:"station,omitempty"`
	Category  string  `json:"category,omitempty"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Label     string  `json:"label"`
}

// Summarize reports completion over tasks. An empty set is 0 of 0 at 0%.
func Summarize(tasks []*Task) Progress {
	total := 0
	for _, t := range tasks {
		if t != nil {
			total++
		}
	}
	completed := CountCompleted(tasks)

	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percent = float64(completed) * 100 / float64(total)
	}
	p.Label = fmt.Sprintf("%d of %d completed", completed, total)
	return p
}

// Board summarizes every station and category pair in enum order.
func Board(tasks []*Task) []Progress {
	board := make([]Progress, 0, len(station.All)*len(category.All))
	for _, s := range station.All {
		for _, c := range category.All {
			p := Summarize(FilterTasks(tasks, s.Code(), c.Code()))
			p.Station = s.Code()
			p.Category = c.Code()
			board = append(board, p)
		}
	}
	return board
}
