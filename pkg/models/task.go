package models

import "time"

// Task represents a single item in the task list. A task with an empty
// ParentID is a root task; otherwise it is a subtask of that parent.
// Nesting is exactly one level deep: subtasks never have subtasks.
type Task struct {
	// ID is the unique identifier for this task, assigned at creation.
	ID string `json:"id"`
	// Title is the display text of the task. Always trimmed and non-empty.
	Title string `json:"title"`
	// Completed marks whether the task has been finished.
	Completed bool `json:"completed"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt"`
	// ParentID is the ID of the root task this subtask belongs to, if any.
	ParentID string `json:"parentId,omitempty"`
	// AIGenerated is true only for subtasks produced by the extraction
	// pipeline, never for user-entered tasks.
	AIGenerated bool `json:"aiGenerated,omitempty"`
	// EstimatedMinutes is a reserved duration field. It is accepted on the
	// wire but not populated by the current extraction logic.
	EstimatedMinutes int `json:"estimatedMinutes,omitempty"`
}

// IsRoot reports whether the task is a top-level item.
func (t *Task) IsRoot() bool {
	return t.ParentID == ""
}

// Plan is the day-plan artifact: opaque markdown text produced by the
// model plus the time it was saved. It is never parsed or validated and
// is replaced wholesale on each planning request.
type Plan struct {
	Text    string    `json:"text"`
	SavedAt time.Time `json:"savedAt"`
}
