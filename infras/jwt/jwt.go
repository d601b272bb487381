package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"tasktrack/config"
	"tasktrack/shared/timezone"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultExpireMin = 60

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrMissingSecret = errors.New("session secret is not configured")
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Token is a signed session token together with the instant it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Issuer interface {
	Mint(userID, email string) (*Token, error)
	Verify(token string) (*Claims, error)
}

type issuerImpl struct {
	config *config.Config
	now    func() time.Time
}

func New(cfg *config.Config) Issuer {
	return NewWithClock(cfg, timezone.Now)
}

// NewWithClock builds an Issuer whose notion of "now" is supplied by the caller.
func NewWithClock(cfg *config.Config, now func() time.Time) Issuer {
	return &issuerImpl{
		config: cfg,
		now:    now,
	}
}

func (s *issuerImpl) Mint(userID, email string) (*Token, error) {
	if userID == "" || email == "" {
		return nil, ErrInvalidClaim
	}

	secret := s.config.Session.Secret
	if secret == "" {
		return nil, ErrMissingSecret
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.lifetime())

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *issuerImpl) Verify(tokenString string) (*Claims, error) {
	secret := s.config.Session.Secret
	if secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.App.Name),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *issuerImpl) lifetime() time.Duration {
	expireMin := s.config.Session.ExpireMin
	if expireMin <= 0 {
		expireMin = defaultExpireMin
	}

	return time.Duration(expireMin) * time.Minute
}
