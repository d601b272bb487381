package todo

import (
	"net/http"
	"tasktrack/infras/otel"
	"tasktrack/internal/domains/todo/model/dto"
	"tasktrack/internal/domains/todo/service"
	"tasktrack/shared"
	"tasktrack/shared/constant"
	"tasktrack/shared/validator"
	"tasktrack/transport/http/middleware"
	"tasktrack/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Todo
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Todo, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.Authenticate)

		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Post("/{id}/toggle", handler.ToggleTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a todo owned by the caller. Status defaults to InProgress and a past due date marks it Overdue.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} dto.TodoResponse "Created todo"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [post]
// @Security CookieAuth
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	user, _ := shared.UserIDFromContext(ctx)
	scope.AddEvent("Todo created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, todo)
}

// GetTodos retrieves the caller's todo items.
// @Summary Get all todo items
// @Description List the caller's todos ordered by due date, undated todos last.
// @Tags Todo
// @Produce json
// @Success 200 {array} dto.TodoResponse "List of todo items"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [get]
// @Security CookieAuth
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	todos, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(w, http.StatusOK, todos)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Description Retrieve one of the caller's todos.
// @Tags Todo
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} dto.TodoResponse "Todo item details"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [get]
// @Security CookieAuth
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	todo, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todo by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo retrieved successfully")

	response.WithJSON(w, http.StatusOK, todo)
}

// UpdateTodo updates an existing todo item by its ID.
// @Summary Update a todo item by ID
// @Description Partially update a todo. Send dueDate as null or "" to clear it.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path string true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} dto.TodoResponse "Updated todo"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [put]
// @Security CookieAuth
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTodoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update todo")

		response.WithError(w, err)

		return
	}

	user, _ := shared.UserIDFromContext(ctx)
	scope.AddEvent("Todo updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, todo)
}

// ToggleTodo flips a todo between Done and not Done.
// @Summary Toggle a todo item
// @Description Done becomes InProgress, any other status becomes Done.
// @Tags Todo
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} dto.TodoResponse "Toggled todo"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id}/toggle [post]
// @Security CookieAuth
func (handler *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTodo")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	todo, err := handler.service.Toggle(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle todo")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item by ID
// @Description Delete one of the caller's todos.
// @Tags Todo
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} response.Message "Todo deleted successfully"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [delete]
// @Security CookieAuth
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete todo")

		response.WithError(w, err)

		return
	}

	user, _ := shared.UserIDFromContext(ctx)
	scope.AddEvent("Todo deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Todo deleted successfully")
}
