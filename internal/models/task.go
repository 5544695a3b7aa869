// internal/models/task.go
package models

import "time"

// TaskState is the single closed vocabulary for task states. Legacy boards
// used "To Do|Doing|Waiting|Done"; NormalizeTaskState maps those values.
type TaskState string

const (
	TaskStatePending    TaskState = "Pending"
	TaskStateInProgress TaskState = "InProgress"
	TaskStateOverdue    TaskState = "Overdue"
	TaskStateCompleted  TaskState = "Completed"
)

// legacyTaskStates maps the old kanban column names onto the closed enum.
var legacyTaskStates = map[string]TaskState{
	"To Do":   TaskStatePending,
	"Doing":   TaskStateInProgress,
	"Waiting": TaskStatePending,
	"Done":    TaskStateCompleted,
}

// NormalizeTaskState resolves raw state strings, including legacy kanban
// column names, to the closed enum. Unknown values default to Pending.
func NormalizeTaskState(raw string) TaskState {
	switch TaskState(raw) {
	case TaskStatePending, TaskStateInProgress, TaskStateOverdue, TaskStateCompleted:
		return TaskState(raw)
	}
	if mapped, ok := legacyTaskStates[raw]; ok {
		return mapped
	}
	return TaskStatePending
}

// Task is a to-do item attached to the pipeline.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	State       TaskState  `json:"state"`
	Priority    Priority   `json:"priority,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	OwnerID     string     `json:"ownerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether the task is past due and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.State == TaskStateCompleted || t.CompletedAt != nil {
		return false
	}
	if t.State == TaskStateOverdue {
		return true
	}
	return t.DueAt != nil && t.DueAt.Before(now)
}
