package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tasktrack/config"
	"tasktrack/infras/kafka"
	kafkaMocks "tasktrack/infras/kafka/mocks"
	"tasktrack/infras/otel/mocks"
	todoMocks "tasktrack/internal/domains/todo/mocks"
	"tasktrack/internal/domains/todo/model"
	"tasktrack/internal/domains/todo/model/dto"
	"tasktrack/internal/domains/todo/service"
	"tasktrack/shared/constant"
	gDto "tasktrack/shared/dto"
	"tasktrack/shared/failure"
)

const (
	ownerID = "user-a"
	otherID = "user-b"
	todoID  = "7b0c7f5e-3a77-4a40-9d0c-6f3e2b8f1a11"
)

var (
	now  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past = now.AddDate(0, 0, -7)
)

func clock() time.Time { return now }

func ptr(s string) *string { return &s }

func asUser(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func newService(t *testing.T) (service.Todo, *todoMocks.MockTodo) {
	ctrl := gomock.NewController(t)
	mockRepo := todoMocks.NewMockTodo(ctrl)

	cfg := &config.Config{}
	events, cleanup := kafka.New(cfg)
	t.Cleanup(cleanup)

	return service.NewWithClock(mockRepo, events, mocks.NewOtel(), clock), mockRepo
}

func storedTodo(status model.Status, dueDate *time.Time) model.Todo {
	return model.Todo{
		ID:      todoID,
		OwnerID: ownerID,
		Title:   "Buy milk",
		Status:  status,
		DueDate: dueDate,
	}
}

func TestTodoService_Create(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		req        dto.CreateTodoRequest
		setupMock  func(repo *todoMocks.MockTodo)
		wantCode   int
		wantStatus string
	}{
		{
			name: "defaults to in progress",
			ctx:  asUser(ownerID),
			req:  dto.CreateTodoRequest{Title: "Buy milk"},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, todo model.Todo) error {
						assert.Equal(t, ownerID, todo.OwnerID)
						assert.Equal(t, model.StatusInProgress, todo.Status)

						return nil
					})
			},
			wantStatus: "InProgress",
		},
		{
			name: "past due date becomes overdue",
			ctx:  asUser(ownerID),
			req:  dto.CreateTodoRequest{Title: "Buy milk", DueDate: ptr("2024-01-01")},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: "Overdue",
		},
		{
			name:      "missing identity",
			ctx:       context.Background(),
			req:       dto.CreateTodoRequest{Title: "Buy milk"},
			setupMock: func(_ *todoMocks.MockTodo) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "bad due date",
			ctx:       asUser(ownerID),
			req:       dto.CreateTodoRequest{Title: "Buy milk", DueDate: ptr("next week")},
			setupMock: func(_ *todoMocks.MockTodo) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "repository error",
			ctx:  asUser(ownerID),
			req:  dto.CreateTodoRequest{Title: "Buy milk"},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			res, err := svc.Create(tt.ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, ownerID, res.UserID)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestTodoService_GetAll(t *testing.T) {
	t.Run("derives and persists overdue", func(t *testing.T) {
		svc, repo := newService(t)

		todos := []model.Todo{
			storedTodo(model.StatusInProgress, &past),
			{ID: "second", OwnerID: ownerID, Title: "Later", Status: model.StatusDone, DueDate: &past},
			{ID: "third", OwnerID: ownerID, Title: "Undated", Status: model.StatusInProgress},
		}

		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Todo, error) {
				assert.Equal(t, "ORDER BY todos.due_date ASC NULLS LAST, todos.created_at ASC", params.OrderClause(model.TableName))

				_, args := filter.GetWhereClause()
				assert.Equal(t, map[string]any{"owner_id": ownerID}, args)

				return todos, nil
			})

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, model.StatusOverdue, fields[model.FieldStatus])

				_, args := filter.GetWhereClause()
				assert.Equal(t, map[string]any{"id": todoID, "owner_id": ownerID}, args)

				return nil
			})

		res, err := svc.GetAll(asUser(ownerID))
		require.NoError(t, err)
		require.Len(t, res, 3)

		assert.Equal(t, "Overdue", res[0].Status)
		assert.Equal(t, "Done", res[1].Status)
		assert.Equal(t, "InProgress", res[2].Status)
	})

	t.Run("write-back failure still returns derived status", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Todo{storedTodo(model.StatusInProgress, &past)}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		res, err := svc.GetAll(asUser(ownerID))
		require.NoError(t, err)
		assert.Equal(t, "Overdue", res[0].Status)
	})

	t.Run("empty list", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Todo{}, nil)

		res, err := svc.GetAll(asUser(ownerID))
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

		_, err := svc.GetAll(asUser(ownerID))
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("missing identity", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetAll(context.Background())
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestTodoService_Get(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		id         string
		setupMock  func(repo *todoMocks.MockTodo)
		wantCode   int
		wantStatus string
	}{
		{
			name: "owner reads todo",
			ctx:  asUser(ownerID),
			id:   todoID,
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
			},
			wantStatus: "InProgress",
		},
		{
			name: "stale overdue is recomputed on read",
			ctx:  asUser(ownerID),
			id:   todoID,
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, &past), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: "Overdue",
		},
		{
			name: "other user's todo is not found",
			ctx:  asUser(otherID),
			id:   todoID,
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "missing todo",
			ctx:  asUser(ownerID),
			id:   todoID,
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "malformed id",
			ctx:       asUser(ownerID),
			id:        "not-a-uuid",
			setupMock: func(_ *todoMocks.MockTodo) {},
			wantCode:  http.StatusNotFound,
		},
		{
			name: "repository error",
			ctx:  asUser(ownerID),
			id:   todoID,
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			res, err := svc.Get(tt.ctx, tt.id)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, todoID, res.ID)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestTodoService_Update(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		req        dto.UpdateTodoRequest
		setupMock  func(repo *todoMocks.MockTodo)
		wantCode   int
		wantStatus string
	}{
		{
			name: "done with past due date stays done",
			ctx:  asUser(ownerID),
			req:  dto.UpdateTodoRequest{Status: ptr("Done"), DueDate: ptr("2024-01-01"), DueDateSet: true},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, model.StatusDone, fields[model.FieldStatus])
						assert.Equal(t, "Buy milk", fields[model.FieldTitle])
						assert.NotNil(t, fields[model.FieldDueDate])

						_, args := filter.GetWhereClause()
						assert.Equal(t, ownerID, args["owner_id"])

						return nil
					})
			},
			wantStatus: "Done",
		},
		{
			name: "moving due date into the past marks overdue",
			ctx:  asUser(ownerID),
			req:  dto.UpdateTodoRequest{DueDate: ptr("2024-01-01"), DueDateSet: true},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: "Overdue",
		},
		{
			name:      "empty update request",
			ctx:       asUser(ownerID),
			req:       dto.UpdateTodoRequest{},
			setupMock: func(_ *todoMocks.MockTodo) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "other user's todo is not found",
			ctx:  asUser(otherID),
			req:  dto.UpdateTodoRequest{Title: ptr("Mine now")},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "update error",
			ctx:  asUser(ownerID),
			req:  dto.UpdateTodoRequest{Title: ptr("Buy bread")},
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			res, err := svc.Update(tt.ctx, tt.req, todoID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestTodoService_Toggle(t *testing.T) {
	tests := []struct {
		name       string
		stored     model.Todo
		wantStatus string
	}{
		{name: "in progress to done", stored: storedTodo(model.StatusInProgress, nil), wantStatus: "Done"},
		{name: "overdue to done", stored: storedTodo(model.StatusOverdue, &past), wantStatus: "Done"},
		{name: "done to in progress ignores due date", stored: storedTodo(model.StatusDone, &past), wantStatus: "InProgress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.stored, nil)
			repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			res, err := svc.Toggle(asUser(ownerID), todoID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}

	t.Run("other user's todo is not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)

		_, err := svc.Toggle(asUser(otherID), todoID)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTodoService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(repo *todoMocks.MockTodo)
		wantCode  int
	}{
		{
			name: "successful deletion",
			ctx:  asUser(ownerID),
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
				repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "other user's todo is not found",
			ctx:  asUser(otherID),
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "delete error",
			ctx:  asUser(ownerID),
			setupMock: func(repo *todoMocks.MockTodo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(model.StatusInProgress, nil), nil)
				repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("delete error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			err := svc.Delete(tt.ctx, todoID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTodoService_PublishesLifecycleEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := todoMocks.NewMockTodo(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)

	svc := service.NewWithClock(repo, events, mocks.NewOtel(), clock)

	var published kafka.Message

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	events.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, msgs ...kafka.Message) {
			require.Len(t, msgs, 1)
			published = msgs[0]
		})

	res, err := svc.Create(asUser(ownerID), dto.CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	event, ok := published.Value.(dto.Event)
	require.True(t, ok)

	assert.Equal(t, res.ID, published.Key)
	assert.Equal(t, dto.EventTodoCreated, event.Type)
	assert.Equal(t, ownerID, event.OwnerID)
}
