package mocks

import (
	"context"
	"tasktrack/infras/otel"
)

type otelImpl struct {
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

// NewOtel returns an Otel that records nothing.
func NewOtel() otel.Otel {
	return &otelImpl{}
}
