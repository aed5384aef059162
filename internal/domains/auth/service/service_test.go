package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"etm/config"
	"etm/infras/jwt"
	jwtMocks "etm/infras/jwt/mocks"
	"etm/infras/otel/mocks"
	accountMocks "etm/internal/domains/account/mocks"
	accountModel "etm/internal/domains/account/model"
	"etm/internal/domains/auth/model/dto"
	"etm/internal/domains/auth/service"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	"etm/shared/password"
)

type fixture struct {
	repo *accountMocks.MockAccount
	jwt  *jwtMocks.MockJWT
	cfg  *config.Config
	svc  service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := config.Defaults()

	f := &fixture{
		repo: accountMocks.NewMockAccount(ctrl),
		jwt:  jwtMocks.NewMockJWT(ctrl),
		cfg:  &cfg,
	}
	f.svc = service.New(f.repo, f.cfg, mocks.NewOtel(), f.jwt)

	return f
}

func hashed(t *testing.T, plain string) string {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return hash
}

var admin = identity.Principal{AccountID: "a0", Username: "admin", Roles: []string{"ADMIN"}}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, account accountModel.Account) error {
			assert.Equal(t, "alice", account.Username)
			assert.Equal(t, "alice@example.com", account.Email)
			assert.Equal(t, pq.StringArray{"USER"}, account.Roles)
			assert.True(t, account.Enabled)
			assert.Equal(t, "admin", account.CreatedBy)
			assert.NoError(t, password.Verify("secret1", account.Password))

			return nil
		})

	res, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	}, admin)

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	req := dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "duplicate username",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "duplicate email",
			setupMock: func(f *fixture) {
				gomock.InOrder(
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unique violation on insert",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository failure",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Register(context.Background(), req, admin)

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := hashed(t, "adminpwd")
	active := accountModel.Account{ID: "a1", Username: "admin", Password: hash, Roles: []string{"ADMIN"}, Enabled: true}
	locked := active
	locked.Locked = true

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Username: "admin", Password: "adminpwd"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				f.jwt.EXPECT().Issue("admin", []string{"ADMIN"}).
					Return(&jwt.Token{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 3600}, nil)
			},
		},
		{
			name: "unknown username",
			req:  dto.LoginRequest{Username: "ghost", Password: "adminpwd"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accountModel.Account{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Username: "admin", Password: "userpwd"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "locked account",
			req:  dto.LoginRequest{Username: "admin", Password: "adminpwd"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(locked, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, dto.TokenResponse{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 3600}, res)
		})
	}
}

func TestAuthService_LoginRehashesLowCostPassword(t *testing.T) {
	f := newFixture(t)

	lowCost, err := bcrypt.GenerateFromPassword([]byte("adminpwd"), bcrypt.MinCost)
	require.NoError(t, err)

	account := accountModel.Account{ID: "a1", Username: "admin", Password: string(lowCost), Roles: []string{"ADMIN"}, Enabled: true}

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			stored, ok := fields["password"].(string)
			require.True(t, ok)
			assert.NoError(t, password.Verify("adminpwd", stored))
			assert.False(t, password.NeedsRehash(stored))
			assert.NotContains(t, fields, "password_changed_at")
			assert.Equal(t, "a1", filter.Values()["id"])

			return errors.New("connection reset")
		})
	f.jwt.EXPECT().Issue("admin", []string{"ADMIN"}).
		Return(&jwt.Token{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 3600}, nil)

	res, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "adminpwd"})

	require.NoError(t, err)
	assert.Equal(t, "token", res.AccessToken)
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(accountModel.Account{ID: "a0", Username: "admin", Email: "admin@etm.local", Roles: []string{"ADMIN"}}, nil)

	res, err := f.svc.Me(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, "admin", res.Username)
	assert.Contains(t, res.Roles, "ADMIN")

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accountModel.Account{}, nil)

	_, err = f.svc.Me(context.Background(), admin)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	account := accountModel.Account{ID: "a0", Username: "admin", Password: hashed(t, "adminpwd"), Enabled: true}

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account, nil)

		err := f.svc.ChangePassword(context.Background(), admin, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpwd1"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing account", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accountModel.Account{}, nil)

		err := f.svc.ChangePassword(context.Background(), admin, dto.ChangePasswordRequest{CurrentPassword: "adminpwd", NewPassword: "newpwd1"})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("updates hash and change time", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				hash, ok := fields["password"].(string)
				require.True(t, ok)
				assert.NoError(t, password.Verify("newpwd1", hash))
				assert.IsType(t, time.Time{}, fields["password_changed_at"])

				return nil
			})

		err := f.svc.ChangePassword(context.Background(), admin, dto.ChangePasswordRequest{CurrentPassword: "adminpwd", NewPassword: "newpwd1"})

		assert.NoError(t, err)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	issued := time.Now().Add(-time.Minute)
	claims := &jwt.Claims{
		Roles: []string{"ADMIN"},
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:  "admin",
			IssuedAt: gojwt.NewNumericDate(issued),
		},
	}
	active := accountModel.Account{ID: "a0", Username: "admin", Roles: []string{"ADMIN", "USER"}, Enabled: true}
	changedLater := issued.Add(30 * time.Second)
	revoked := active
	revoked.PasswordChangedAt = &changedLater
	disabled := active
	disabled.Enabled = false

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantErr   error
	}{
		{
			name: "usable account",
			setupMock: func(f *fixture) {
				f.jwt.EXPECT().Parse("token").Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
				f.jwt.EXPECT().Validate("token", "admin").Return(nil)
			},
		},
		{
			name: "expired token",
			setupMock: func(f *fixture) {
				f.jwt.EXPECT().Parse("token").Return(nil, jwt.ErrExpiredToken)
			},
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name: "unknown account",
			setupMock: func(f *fixture) {
				f.jwt.EXPECT().Parse("token").Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accountModel.Account{}, nil)
			},
			wantErr: service.ErrUnknownAccount,
		},
		{
			name: "disabled account",
			setupMock: func(f *fixture) {
				f.jwt.EXPECT().Parse("token").Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(disabled, nil)
			},
			wantErr: service.ErrAccountDisabled,
		},
		{
			name: "token older than password change",
			setupMock: func(f *fixture) {
				f.jwt.EXPECT().Parse("token").Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(revoked, nil)
				f.jwt.EXPECT().Validate("token", "admin").Return(nil)
			},
			wantErr: service.ErrTokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			principal, err := f.svc.Resolve(context.Background(), "token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, principal.Authenticated())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, identity.Principal{AccountID: "a0", Username: "admin", Roles: []string{"ADMIN", "USER"}}, principal)
		})
	}
}

func TestAuthService_SeedAdmin(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t)

		assert.NoError(t, f.svc.SeedAdmin(context.Background()))
	})

	t.Run("already present", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Security.SeedAdmin.Enable = true
		f.cfg.Security.SeedAdmin.Password = "adminpwd"

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		assert.NoError(t, f.svc.SeedAdmin(context.Background()))
	})

	t.Run("creates admin", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Security.SeedAdmin.Enable = true
		f.cfg.Security.SeedAdmin.Password = "adminpwd"

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, account accountModel.Account) error {
				assert.Equal(t, "admin", account.Username)
				assert.Equal(t, pq.StringArray{"ADMIN", "USER"}, account.Roles)
				assert.Equal(t, "system", account.CreatedBy)

				return nil
			})

		assert.NoError(t, f.svc.SeedAdmin(context.Background()))
	})
}
