package auth

import (
	"net/http"
	"tasktrack/config"
	"tasktrack/infras/otel"
	"tasktrack/internal/domains/auth/model/dto"
	"tasktrack/internal/domains/auth/service"
	"tasktrack/shared/constant"
	"tasktrack/shared/validator"
	"tasktrack/transport/http/cookie"
	"tasktrack/transport/http/middleware"
	"tasktrack/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	auth    middleware.Auth
	app     middleware.AppMiddleware
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Auth, auth middleware.Auth, app middleware.AppMiddleware, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		app:     app,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.With(handler.app.RateLimit()).Post("/signup", handler.Signup)
		r.With(handler.app.RateLimit()).Post("/login", handler.Login)
		r.Post("/logout", handler.Logout)
		r.With(handler.auth.Authenticate).Get("/me", handler.Me)
	})
}

// Signup handles user registration
// @Summary Register a new user
// @Description Create an account and start a session. The session token is returned as the `token` cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup Request"
// @Success 200 {object} dto.UserEnvelope "User registered and logged in"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/signup [post]
func (handler *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Signup")
	defer scope.End()

	req := dto.SignupRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Signup(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sign up user")

		response.WithError(w, err)

		return
	}

	cookie.Set(w, res.Token.Value, res.Token.ExpiresAt, handler.cfg.Session.CookieSecure)

	scope.AddEvent("User signed up successfully")

	response.WithJSON(w, http.StatusOK, res.Response())
}

// Login handles user login
// @Summary Login a user
// @Description Verify credentials and start a session. The session token is returned as the `token` cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.UserEnvelope "User logged in successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to login user")

		response.WithError(w, err)

		return
	}

	cookie.Set(w, res.Token.Value, res.Token.ExpiresAt, handler.cfg.Session.CookieSecure)

	scope.AddEvent("User logged in successfully")

	response.WithJSON(w, http.StatusOK, res.Response())
}

// Logout ends the session
// @Summary Logout
// @Description Clear the session cookie. Succeeds with or without an active session.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Message "Logged out successfully"
// @Router /auth/logout [post]
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	cookie.Clear(w, handler.cfg.Session.CookieSecure)

	response.WithMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the current user
// @Summary Current user
// @Description Return the user owning the session cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserEnvelope "Current user"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/me [get]
// @Security CookieAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	user, err := handler.service.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get current user")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.UserEnvelope{User: user})
}
