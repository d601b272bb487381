package handler

import (
	"net/http"
	"sync"
	"tasktrack/config"
	"tasktrack/di"
	"tasktrack/shared/logger"
	"tasktrack/transport/http/response"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	service http.Handler
	initErr error
)

func initialize() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	// connections live for the lifetime of the function instance, so the cleanup is never run
	server, _, err := di.InitializeService()
	if err != nil {
		initErr = err

		log.Error().Err(err).Msg("Failed to initialize service")

		return
	}

	service = server
}

// Handler is the serverless entry point. The injector is built on the first request only.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(initialize)

	if initErr != nil {
		response.WithUnhealthy(w)

		return
	}

	service.ServeHTTP(w, r)
}
