package router

import (
	"tasktrack/internal/handlers/auth"
	"tasktrack/internal/handlers/todo"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth auth.Handler
	Todo todo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Todo.Router(router)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
