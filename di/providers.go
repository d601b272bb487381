package di

import (
	"context"
	"tasktrack/config"
	"tasktrack/infras/otel"
	"time"

	"github.com/rs/zerolog/log"
)

const otelShutdownTimeout = 5 * time.Second

// provideOtel flushes buffered spans when the injector is torn down.
func provideOtel(cfg *config.Config) (otel.Otel, func()) {
	tracer := otel.New(cfg)

	return tracer, func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()

		if err := tracer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}
}
