package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todoctl/internal/service"
	"todoctl/internal/tasks"
)

// idPrefix marks a reference by task ID instead of list position.
const idPrefix = "id:"

// TaskRef is a parsed task reference: either a 1-based position in the full
// list, or an explicit task ID.
type TaskRef struct {
	Num int    // 1-based position; 0 when ID is set
	ID  string // task ID; empty when Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

func (r TaskRef) String() string {
	if r.ID != "" {
		return idPrefix + r.ID
	}
	return strconv.Itoa(r.Num)
}

// ParseTaskRef parses the first argument as a task reference.
//
// Accepted forms:
//  1. all digits (e.g. 3) → position in the list as printed by `list`
//  2. id:<task-id> (e.g. id:5f0c...) → exact task ID
//
// Anything else is an invalid task reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.HasPrefix(arg, idPrefix) {
		id := strings.TrimPrefix(arg, idPrefix)
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// errRefOutOfRange and errRefUnknownID describe unresolved references.
var (
	errRefOutOfRange = errors.New("task number out of range")
	errRefUnknownID  = errors.New("task not found")
)

// ResolveTaskRef finds the referenced task in the loaded store.
func ResolveTaskRef(store *tasks.Store, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		task, ok := store.Find(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("%w: %s", errRefUnknownID, ref.ID)
		}
		return task, nil
	}

	list := store.Tasks()
	if ref.Num < 1 || ref.Num > len(list) {
		return service.Task{}, fmt.Errorf("%w: %d", errRefOutOfRange, ref.Num)
	}
	return list[ref.Num-1], nil
}
