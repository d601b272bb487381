package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tasktrack/config"
	"tasktrack/infras/jwt"
	jwtMocks "tasktrack/infras/jwt/mocks"
	"tasktrack/infras/otel/mocks"
	"tasktrack/internal/domains/auth/model/dto"
	"tasktrack/internal/domains/auth/service"
	userMocks "tasktrack/internal/domains/user/mocks"
	userModel "tasktrack/internal/domains/user/model"
	userDto "tasktrack/internal/domains/user/model/dto"
	"tasktrack/shared/cache"
	cacheMocks "tasktrack/shared/cache/mocks"
	"tasktrack/shared/constant"
	gDto "tasktrack/shared/dto"
	"tasktrack/shared/failure"
	"tasktrack/shared/password"
)

type fixture struct {
	svc    service.Auth
	repo   *userMocks.MockUser
	cache  *cacheMocks.MockRedisCache
	issuer *jwtMocks.MockIssuer
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:   userMocks.NewMockUser(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		issuer: jwtMocks.NewMockIssuer(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 300

	f.svc = service.New(f.repo, f.cache, cfg, mocks.NewOtel(), f.issuer)

	return f
}

func storedUser(t *testing.T, plain string) userModel.User {
	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userDto.NewUser("a@x.com", hash)
}

func token() *jwt.Token {
	return &jwt.Token{Value: "signed-token", ExpiresAt: time.Now().Add(time.Hour)}
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.SignupRequest
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "successful signup",
			req:  dto.SignupRequest{Email: "A@X.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, "a@x.com", args["email"])

						return false, nil
					})

				mint := f.issuer.EXPECT().Mint(gomock.Any(), "a@x.com").Return(token(), nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, "a@x.com", user.Email)
						assert.NotEqual(t, "secret1", user.Password)
						assert.True(t, password.Verify("secret1", user.Password))

						return nil
					}).
					After(mint)
			},
		},
		{
			name: "email already exists",
			req:  dto.SignupRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "email already exists",
		},
		{
			name: "lost race on unique index",
			req:  dto.SignupRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.issuer.EXPECT().Mint(gomock.Any(), "a@x.com").Return(token(), nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (user): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation}))
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "email already exists",
		},
		{
			name: "exist check error",
			req:  dto.SignupRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "insert error",
			req:  dto.SignupRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.issuer.EXPECT().Mint(gomock.Any(), "a@x.com").Return(token(), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "signing failure creates no account",
			req:  dto.SignupRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.issuer.EXPECT().Mint(gomock.Any(), "a@x.com").Return(nil, jwt.ErrMissingSecret)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Signup(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.User.ID)
			assert.Equal(t, "a@x.com", res.User.Email)
			assert.Equal(t, "signed-token", res.Token.Value)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	user := storedUser(t, "secret1")

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				f.issuer.EXPECT().Mint(user.ID, user.Email).Return(token(), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				f.issuer.EXPECT().Mint(user.ID, user.Email).Return(token(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "a@x.com", Password: "wrongpassword"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "repository error",
			req:  dto.LoginRequest{Email: "a@x.com", Password: "secret1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusUnauthorized {
					assert.EqualError(t, err, "invalid email or password")
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, res.User.ID)
			assert.Equal(t, "signed-token", res.Token.Value)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	user := storedUser(t, "secret1")
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, user.ID)
	key := "user:get:" + user.ID

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), key, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*userDto.UserResponse)
				require.True(t, ok)
				res.ID = user.ID
				res.Email = user.Email

				return nil
			})

		res, err := f.svc.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, user.Email, res.Email)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		f := newFixture(t)
		saved := make(chan string, 1)

		f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(fmt.Errorf("failed to get cache value: %w", cache.Nil))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.cache.EXPECT().
			Save(gomock.Any(), key, gomock.Any(), 300).
			DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
				saved <- key

				return nil
			})

		res, err := f.svc.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.ID)
		assert.NotEmpty(t, res.CreatedAt)

		select {
		case got := <-saved:
			assert.Equal(t, key, got)
		case <-time.After(time.Second):
			t.Fatal("user was not cached")
		}
	})

	t.Run("user vanished", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := f.svc.Me(ctx)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("missing identity", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Me(context.Background())
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
