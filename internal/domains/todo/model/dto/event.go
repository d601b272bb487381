package dto

import (
	"tasktrack/internal/domains/todo/model"
	"tasktrack/shared/constant"
	"tasktrack/shared/timezone"
	"time"
)

type EventType string

const (
	EventTodoCreated EventType = "todo.created"
	EventTodoUpdated EventType = "todo.updated"
	EventTodoToggled EventType = "todo.toggled"
	EventTodoDeleted EventType = "todo.deleted"
)

// Event is the lifecycle record published to the event stream, keyed by todo id.
type Event struct {
	Type       EventType `json:"type"`
	TodoID     string    `json:"todoId"`
	OwnerID    string    `json:"userId"`
	Status     string    `json:"status,omitempty"`
	OccurredAt string    `json:"occurredAt"`
}

func NewEvent(eventType EventType, todo model.Todo, at time.Time) Event {
	return Event{
		Type:       eventType,
		TodoID:     todo.ID,
		OwnerID:    todo.OwnerID,
		Status:     string(todo.Status),
		OccurredAt: timezone.Format(at, constant.DateFormat),
	}
}
