package dto_test

import (
	"tasktrack/shared/constant"
	"tasktrack/shared/dto"
	"tasktrack/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedCreated.Equal(createdAt))

	parsedModified, err := time.Parse(constant.DateFormat, metadata.ModifiedAt)
	assert.NoError(t, err)
	assert.True(t, parsedModified.Equal(modifiedAt))
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal with table",
			filter:    dto.Filter{Field: "id", Value: "abc", Operator: dto.FilterOperatorEq, Table: "todos"},
			wantWhere: "todos.id = :id",
			wantArgs:  map[string]any{"id": "abc"},
		},
		{
			name:      "not equal with custom arg name",
			filter:    dto.Filter{ArgName: "st", Field: "status", Value: "Done", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status != :st",
			wantArgs:  map[string]any{"st": "Done"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "status", Value: []string{"Done", "Overdue"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "Done", "status_1": "Overdue"},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "due_date", Operator: dto.FilterIsNull, Table: "todos"},
			wantWhere: "todos.due_date IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is not null",
			filter:    dto.Filter{Field: "due_date", Operator: dto.FilterIsNotNull},
			wantWhere: "due_date IS NOT NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Operator: "bogus"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "todo-1", Operator: dto.FilterOperatorEq, Table: "todos"},
			dto.Filter{Field: "owner_id", Value: "user-1", Operator: dto.FilterOperatorEq, Table: "todos"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(todos.id = :id AND todos.owner_id = :owner_id)", where)
	assert.Equal(t, map[string]any{"id": "todo-1", "owner_id": "user-1"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterGroup_Add(t *testing.T) {
	base := dto.FilterGroup{Filters: []any{dto.Filter{Field: "id", Value: "1", Operator: dto.FilterOperatorEq}}}
	extended := base.Add(dto.Filter{Field: "owner_id", Value: "u", Operator: dto.FilterOperatorEq})

	assert.Len(t, base.Filters, 1, "expected the original group to be untouched")
	assert.Len(t, extended.Filters, 2)
}

func TestQueryParams_OrderClause(t *testing.T) {
	params := dto.QueryParams{
		Sorts: []dto.Sort{
			{Field: "due_date", Dir: "asc", NullsLast: true},
			{Field: "created_at", Dir: dto.SortDirAsc},
		},
	}

	assert.Equal(t, "ORDER BY todos.due_date ASC NULLS LAST, todos.created_at ASC", params.OrderClause("todos"))

	desc := dto.QueryParams{Sorts: []dto.Sort{{Field: "created_at", Dir: "desc"}}}
	assert.Equal(t, "ORDER BY created_at DESC", desc.OrderClause(""))

	none := dto.QueryParams{}
	assert.Empty(t, none.OrderClause("todos"))
}
