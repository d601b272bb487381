package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Todo=MockTodoService

import (
	"context"
	"fmt"
	"tasktrack/infras/kafka"
	"tasktrack/infras/otel"
	"tasktrack/internal/domains/todo/model"
	"tasktrack/internal/domains/todo/model/dto"
	"tasktrack/internal/domains/todo/repository"
	"tasktrack/shared"
	"tasktrack/shared/constant"
	"tasktrack/shared/failure"
	"tasktrack/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const errTodoNotFound = "todo not found"

type Todo interface {
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	GetAll(ctx context.Context) ([]dto.TodoResponse, error)
	Get(ctx context.Context, id string) (dto.TodoResponse, error)
	Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (dto.TodoResponse, error)
	Toggle(ctx context.Context, id string) (dto.TodoResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo   repository.Todo
	events kafka.Client
	otel   otel.Otel
	now    func() time.Time
}

func New(repo repository.Todo, events kafka.Client, otel otel.Otel) Todo {
	return NewWithClock(repo, events, otel, timezone.Now)
}

// NewWithClock is New with an injectable notion of "now" for the overdue rule.
func NewWithClock(repo repository.Todo, events kafka.Client, otel otel.Otel, now func() time.Time) Todo {
	return &serviceImpl{
		repo:   repo,
		events: events,
		otel:   otel,
		now:    now,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, err := identity(ctx)
	if err != nil {
		return res, err
	}

	todo, err := req.ToModel(userID, s.now())
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, todo); err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	s.publish(ctx, dto.EventTodoCreated, todo)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, err := identity(ctx)
	if err != nil {
		return res, err
	}

	todos, err := s.repo.GetAll(ctx, repository.DueDateOrder(), repository.FilterByOwner(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get todos")

		return res, fmt.Errorf("failed to get todos: %w", err)
	}

	now := s.now()
	for i := range todos {
		s.refresh(ctx, &todos[i], now)
	}

	return dto.FromModels(todos), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.authorizeOwner(ctx, id)
	if err != nil {
		return res, err
	}

	s.refresh(ctx, &todo, s.now())

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	todo, err := s.authorizeOwner(ctx, id)
	if err != nil {
		return res, err
	}

	now := s.now()
	if err = req.Merge(&todo, now); err != nil {
		return res, err
	}

	if err = s.save(ctx, &todo, now); err != nil {
		log.Error().Err(err).Str("todo_id", id).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	s.publish(ctx, dto.EventTodoUpdated, todo)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Toggle(ctx context.Context, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.Toggle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.authorizeOwner(ctx, id)
	if err != nil {
		return res, err
	}

	todo.Toggle()

	if err = s.save(ctx, &todo, s.now()); err != nil {
		log.Error().Err(err).Str("todo_id", id).Msg("failed to toggle todo")

		return res, fmt.Errorf("failed to toggle todo: %w", err)
	}

	s.publish(ctx, dto.EventTodoToggled, todo)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Todo.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.authorizeOwner(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, repository.FilterByIDAndOwner(todo.ID, todo.OwnerID)); err != nil {
		log.Error().Err(err).Str("todo_id", id).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.publish(ctx, dto.EventTodoDeleted, todo)

	return nil
}

// authorizeOwner loads the todo and checks it belongs to the caller. A todo owned by
// someone else is reported exactly like a missing one.
func (s *serviceImpl) authorizeOwner(ctx context.Context, id string) (model.Todo, error) {
	userID, err := identity(ctx)
	if err != nil {
		return model.Todo{}, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return model.Todo{}, failure.NotFound(errTodoNotFound) //nolint:wrapcheck
	}

	todo, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("todo_id", id).Msg("failed to get todo")

		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}

	if todo.ID == "" || !todo.OwnedBy(userID) {
		return model.Todo{}, failure.NotFound(errTodoNotFound) //nolint:wrapcheck
	}

	return todo, nil
}

// save writes every mutable column in one statement scoped by id and owner.
func (s *serviceImpl) save(ctx context.Context, todo *model.Todo, now time.Time) error {
	todo.ModifiedAt = now
	todo.ModifiedBy = todo.OwnerID

	fields := map[string]any{
		model.FieldTitle:         todo.Title,
		model.FieldDescription:   todo.Description,
		model.FieldDueDate:       todo.DueDate,
		model.FieldStatus:        todo.Status,
		constant.FieldModifiedAt: todo.ModifiedAt,
		constant.FieldModifiedBy: todo.ModifiedBy,
	}

	return s.repo.Update(ctx, fields, repository.FilterByIDAndOwner(todo.ID, todo.OwnerID)) //nolint:wrapcheck
}

// refresh applies the overdue rule to a todo read from storage and persists the new
// status when it changed. A failed write-back is logged and the derived status is still returned.
func (s *serviceImpl) refresh(ctx context.Context, todo *model.Todo, now time.Time) {
	if !todo.Derive(now) {
		return
	}

	fields := map[string]any{
		model.FieldStatus:        todo.Status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: todo.OwnerID,
	}

	if err := s.repo.Update(ctx, fields, repository.FilterByIDAndOwner(todo.ID, todo.OwnerID)); err != nil {
		log.Warn().Err(err).Str("todo_id", todo.ID).Msg("failed to persist derived todo status")

		return
	}

	todo.ModifiedAt = now
	todo.ModifiedBy = todo.OwnerID
}

func (s *serviceImpl) publish(ctx context.Context, eventType dto.EventType, todo model.Todo) {
	event := dto.NewEvent(eventType, todo, s.now())

	log.Debug().Str("event", string(eventType)).Str("todo_id", todo.ID).Msg("publishing todo event")
	s.events.Publish(ctx, kafka.Message{Key: todo.ID, Value: event})
}

func identity(ctx context.Context) (string, error) {
	userID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		return "", failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	return userID, nil
}
