package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tasktrack/infras/otel"
	"tasktrack/infras/postgres"
	"tasktrack/internal/domains/todo/model"
	"tasktrack/shared"
	"tasktrack/shared/constant"
	gDto "tasktrack/shared/dto"
	gRepo "tasktrack/shared/repository"
)

type Todo interface {
	Insert(ctx context.Context, model model.Todo) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Todo, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Todo, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Todo]
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// FilterByOwner scopes a query to the todos of one user.
func FilterByOwner(ownerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOwnerID,
				Operator: gDto.FilterOperatorEq,
				Value:    ownerID,
				Table:    model.TableName,
			},
		},
	}
}

// FilterByIDAndOwner scopes a query to a single todo of one user.
func FilterByIDAndOwner(id, ownerID string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName).Add(gDto.Filter{
		Field:    model.FieldOwnerID,
		Operator: gDto.FilterOperatorEq,
		Value:    ownerID,
		Table:    model.TableName,
	})
}

// DueDateOrder lists undated todos last and breaks ties by creation time.
func DueDateOrder() gDto.QueryParams {
	return gDto.QueryParams{
		Sorts: []gDto.Sort{
			{Field: model.FieldDueDate, Dir: gDto.SortDirAsc, NullsLast: true},
			{Field: constant.FieldCreatedAt, Dir: gDto.SortDirAsc},
		},
	}
}
