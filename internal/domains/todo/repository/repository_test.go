package repository_test

import (
	"tasktrack/internal/domains/todo/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByIDAndOwner(t *testing.T) {
	filter := repository.FilterByIDAndOwner("todo-1", "user-1")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(todos.id = :id AND todos.owner_id = :owner_id)", where)
	assert.Equal(t, map[string]any{"id": "todo-1", "owner_id": "user-1"}, args)
}

func TestFilterByOwner(t *testing.T) {
	filter := repository.FilterByOwner("user-1")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(todos.owner_id = :owner_id)", where)
	assert.Equal(t, map[string]any{"owner_id": "user-1"}, args)
}

func TestDueDateOrder(t *testing.T) {
	params := repository.DueDateOrder()

	assert.Equal(t, "ORDER BY todos.due_date ASC NULLS LAST, todos.created_at ASC", params.OrderClause("todos"))
}
