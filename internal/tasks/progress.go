package tasks

import "todoctl/internal/service"

// Progress summarizes completion across the whole list.
type Progress struct {
	Total     int
	Completed int
}

// ComputeProgress counts completed tasks.
func ComputeProgress(list []service.Task) Progress {
	p := Progress{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}

// Percent returns the completed share in [0, 100]. An empty list is 0%.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}
