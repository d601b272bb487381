//go:build wireinject
// +build wireinject

package di

import (
	"tasktrack/config"
	"tasktrack/infras/jwt"
	"tasktrack/infras/kafka"
	"tasktrack/infras/postgres"
	"tasktrack/infras/redis"
	"tasktrack/shared/cache"
	"tasktrack/transport/http"
	"tasktrack/transport/http/middleware"
	"tasktrack/transport/http/router"

	todoRepository "tasktrack/internal/domains/todo/repository"
	todoService "tasktrack/internal/domains/todo/service"
	todoHandler "tasktrack/internal/handlers/todo"

	"github.com/google/wire"

	authService "tasktrack/internal/domains/auth/service"
	userRepository "tasktrack/internal/domains/user/repository"
	authHandler "tasktrack/internal/handlers/auth"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	provideOtel,
	redis.New,
	kafka.New,
	jwt.New,
	wire.Bind(new(http.Pinger), new(*postgres.Connection)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	todoDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	authHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil, nil
}
