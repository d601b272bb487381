package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"tasktrack/config"
	"tasktrack/transport/http/router"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealth(t *testing.T) {
	healthy := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		state    ServerState
		db       Pinger
		wantCode int
	}{
		{name: "ready", state: ServerStateReady, db: healthy, wantCode: http.StatusOK},
		{name: "ready without database", state: ServerStateReady, wantCode: http.StatusOK},
		{name: "database unreachable", state: ServerStateReady, db: down, wantCode: http.StatusServiceUnavailable},
		{name: "grace period", state: ServerStateInGracePeriod, db: healthy, wantCode: http.StatusServiceUnavailable},
		{name: "cleanup period", state: ServerStateInCleanupPeriod, db: healthy, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&config.Config{}, router.Router{}, nil, tt.db)
			h.state.Store(int32(tt.state))

			recorder := httptest.NewRecorder()
			h.health(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}
