package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"tasktrack/config"
	"tasktrack/infras/jwt"
	"tasktrack/infras/otel"
	"tasktrack/internal/domains/auth/model/dto"
	userModel "tasktrack/internal/domains/user/model"
	userDto "tasktrack/internal/domains/user/model/dto"
	userRepo "tasktrack/internal/domains/user/repository"
	"tasktrack/shared"
	"tasktrack/shared/cache"
	"tasktrack/shared/constant"
	"tasktrack/shared/failure"
	"tasktrack/shared/password"
	"tasktrack/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	errEmailExists        = "email already exists"
	errInvalidCredentials = "invalid email or password"
	errUnauthorized       = "unauthorized"

	cacheKeyUserGet = "user:get"
)

type Auth interface {
	Signup(ctx context.Context, req dto.SignupRequest) (dto.Session, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.Session, error)
	Me(ctx context.Context) (userDto.UserResponse, error)
}

type serviceImpl struct {
	userRepo userRepo.User
	cache    cache.RedisCache
	cfg      *config.Config
	otel     otel.Otel
	issuer   jwt.Issuer
}

func New(userRepo userRepo.User, cache cache.RedisCache, cfg *config.Config, otel otel.Otel, issuer jwt.Issuer) Auth {
	return &serviceImpl{
		userRepo: userRepo,
		cache:    cache,
		cfg:      cfg,
		otel:     otel,
		issuer:   issuer,
	}
}

func (s *serviceImpl) Signup(ctx context.Context, req dto.SignupRequest) (res dto.Session, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Signup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := userDto.NormalizeEmail(req.Email)

	exists, err := s.userRepo.Exist(ctx, userRepo.FilterByEmail(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString(errEmailExists) //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if errors.Is(err, password.ErrHashingPassword) {
		return res, failure.BadRequestFromString("password must be at most 72 bytes") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := userDto.NewUser(email, hashedPassword)

	// minted before the insert so a signing failure leaves no account behind
	res, err = s.session(user)
	if err != nil {
		return res, err
	}

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return dto.Session{}, failure.BadRequestFromString(errEmailExists) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return dto.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.Session, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := userDto.NormalizeEmail(req.Email)
	filter := userRepo.FilterByEmail(email)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		password.Discard(req.Password)
		log.Warn().Str("email", email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(errInvalidCredentials) //nolint:wrapcheck
	}

	if !password.Verify(req.Password, user.Password) {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(errInvalidCredentials) //nolint:wrapcheck
	}

	res, err = s.session(user)
	if err != nil {
		return res, err
	}

	lastLogin := userDto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	if err := s.userRepo.Update(ctx, shared.TransformFields(lastLogin, user.ID), filter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		return res, failure.Unauthorized(errUnauthorized) //nolint:wrapcheck
	}

	key := shared.BuildCacheKey(cacheKeyUserGet, userID)

	if err := s.cache.Get(ctx, key, &res); err == nil {
		return res, nil
	} else if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("failed to read user from cache")
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.Unauthorized(errUnauthorized) //nolint:wrapcheck
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, res, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache user")
		}
	}()

	return res, nil
}

func (s *serviceImpl) session(user userModel.User) (dto.Session, error) {
	token, err := s.issuer.Mint(user.ID, user.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to mint session token")

		return dto.Session{}, fmt.Errorf("failed to mint session token: %w", err)
	}

	var res dto.Session

	res.User.FromModel(user)
	res.Token = token

	return res, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
