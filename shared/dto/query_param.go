package dto

import (
	"fmt"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type Sort struct {
	Field     string
	Dir       string
	NullsLast bool
}

type QueryParams struct {
	Sorts []Sort
}

// OrderClause renders the sorts as an ORDER BY clause, or an empty string when there are none.
func (q *QueryParams) OrderClause(table string) string {
	if len(q.Sorts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(q.Sorts))

	for _, sort := range q.Sorts {
		dir := strings.ToUpper(sort.Dir)
		if dir != SortDirDesc {
			dir = SortDirAsc
		}

		column := sort.Field
		if table != "" {
			column = fmt.Sprintf("%s.%s", table, sort.Field)
		}

		part := fmt.Sprintf("%s %s", column, dir)
		if sort.NullsLast {
			part += " NULLS LAST"
		}

		parts = append(parts, part)
	}

	return "ORDER BY " + strings.Join(parts, ", ")
}
