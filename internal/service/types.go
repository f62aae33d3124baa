package service

// Task is a single todo record.
type Task struct {
	ID        string
	Title     string
	Completed bool
}

// TaskPatch lists the fields to change on an existing task.
// Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply returns t with the patch fields applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// TitlePatch builds a patch that only renames a task.
func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

// CompletedPatch builds a patch that only changes completion.
func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}
