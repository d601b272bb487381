package model

import (
	"tasktrack/shared/model"
	"time"
)

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldStatus      = "status"
)

type Status string

const (
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
	StatusOverdue    Status = "Overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusDone, StatusOverdue:
		return true
	default:
		return false
	}
}

type Todo struct {
	ID          string     `db:"id"`
	OwnerID     string     `db:"owner_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	Status      Status     `db:"status"`
	model.Metadata
}

// Derive marks the todo Overdue when its due date lies strictly before now.
// Done is never overridden. It reports whether the status changed.
func (t *Todo) Derive(now time.Time) bool {
	if t.Status == StatusDone || t.DueDate == nil || !t.DueDate.Before(now) {
		return false
	}

	if t.Status == StatusOverdue {
		return false
	}

	t.Status = StatusOverdue

	return true
}

// Toggle flips between Done and InProgress without looking at the due date.
func (t *Todo) Toggle() {
	if t.Status == StatusDone {
		t.Status = StatusInProgress

		return
	}

	t.Status = StatusDone
}

func (t *Todo) OwnedBy(userID string) bool {
	return userID != "" && t.OwnerID == userID
}
