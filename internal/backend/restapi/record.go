package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"todoctl/internal/service"
)

// recordID accepts both string and numeric ids.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*id = recordID(n.String())
	return nil
}

// record is the wire shape of a task.
type record struct {
	ID        recordID `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
}

func (r record) task() service.Task {
	return service.Task{ID: string(r.ID), Title: r.Title, Completed: r.Completed}
}

func newRecord(t service.Task) record {
	return record{ID: recordID(t.ID), Title: t.Title, Completed: t.Completed}
}

// patchBody is the PATCH payload; only set fields are sent.
type patchBody struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func newPatchBody(p service.TaskPatch) patchBody {
	return patchBody{Title: p.Title, Completed: p.Completed}
}

// excerpt shortens a response body for error messages.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
