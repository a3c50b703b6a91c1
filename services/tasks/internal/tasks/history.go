package tasks

import (
	"sort"
	"time"
)

type HistoryDay struct {
	Date        string            `json:"date"`
	Label       string            `json:"label"`
	Count       int               `json:"count"`
	Submissions []*TaskSubmission `json:"submissions"`
}

// GroupByDay buckets submissions by calendar day in loc. Days and the
// submissions inside them are newest first.
func GroupByDay(submissions []*TaskSubmission, loc *time.Location) []HistoryDay {
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]*TaskSubmission, 0, len(submissions))
	for _, s := range submissions {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	days := []HistoryDay{}
	index := map[string]int{}
	for _, s := range sorted {
		local := s.Timestamp.In(loc)
		key := local.Format(dateLayout)
		i, ok := index[key]
		if !ok {
			days = append(days, HistoryDay{
				Date:  key,
				Label: local.Format("Monday, Jan 2"),
			})
			i = len(days) - 1
			index[key] = i
		}
		days[i].Submissions = append(days[i].Submissions, s)
		days[i].Count++
	}
	return days
}
