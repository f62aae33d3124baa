// Package tasks holds the client-side view of the task collection: filtering,
// progress and the Store that keeps the local list in step with the backend.
package tasks

import (
	"fmt"
	"strings"

	"todoctl/internal/service"
)

// Filter selects which tasks a view shows.
type Filter int

const (
	All Filter = iota
	Done
	Undone
)

var filterNames = [...]string{"All", "Done", "Undone"}

// Filters lists every filter in menu order.
var Filters = []Filter{All, Done, Undone}

func (f Filter) String() string {
	if f < All || f > Undone {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// ParseFilter parses a filter name, ignoring case and surrounding space.
// The empty string means All.
func ParseFilter(s string) (Filter, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return All, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}
	return All, fmt.Errorf("invalid filter: %s", s)
}

// Next cycles All -> Done -> Undone -> All.
func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filterNames))
}

// Match reports whether t belongs in the filtered view.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case Done:
		return t.Completed
	case Undone:
		return !t.Completed
	default:
		return true
	}
}

// EmptyMessage is the placeholder shown when no task matches.
func (f Filter) EmptyMessage() string {
	switch f {
	case Done:
		return "No done task."
	case Undone:
		return "No undone task."
	default:
		return "No task, please create a new task."
	}
}

// Apply returns the tasks matching f, in list order.
func Apply(f Filter, list []service.Task) []service.Task {
	out := make([]service.Task, 0, len(list))
	for _, t := range list {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
