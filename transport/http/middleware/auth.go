package middleware

import (
	"context"
	"errors"
	"net/http"
	"tasktrack/infras/jwt"
	"tasktrack/infras/otel"
	"tasktrack/shared/constant"
	"tasktrack/shared/failure"
	"tasktrack/transport/http/cookie"
	"tasktrack/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	errUnauthorized   = "unauthorized"
	errSessionExpired = "session expired"
	errSessionInvalid = "invalid session"
)

// Auth resolves the caller identity from the session cookie.
type Auth interface {
	Authenticate(next http.Handler) http.Handler
}

type authImpl struct {
	issuer jwt.Issuer
	otel   otel.Otel
}

func NewAuthMiddleware(issuer jwt.Issuer, otel otel.Otel) Auth {
	return &authImpl{
		issuer: issuer,
		otel:   otel,
	}
}

// Authenticate rejects requests without a valid session and stores the user id
// in the request context for downstream handlers.
func (m *authImpl) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
		})

		token, ok := cookie.Read(request)
		if !ok {
			err := failure.Unauthorized(errUnauthorized)

			scope.TraceError(err)
			scope.End()

			response.WithError(writer, err)

			return
		}

		claims, err := m.issuer.Verify(token)
		if err != nil {
			message := errSessionInvalid
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = errSessionExpired
			}

			log.Warn().Err(err).Str("path", request.URL.Path).Msg("rejected session token")

			fail := failure.Unauthorized(message)

			scope.TraceError(fail)
			scope.End()

			response.WithError(writer, fail)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)

		scope.SetAttribute("user.id", claims.UserID)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
