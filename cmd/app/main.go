package main

import (
	"tasktrack/config"
	"tasktrack/di"
	"tasktrack/helper"
	"tasktrack/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title tasktrack API
// @version 1.0
// @description Multi-user task tracker with cookie sessions.
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	defer cleanup()

	http.Serve()
}
