package dto

import (
	"slices"
	"strings"
	"time"

	"etm/infras/jwt"
	accountModel "etm/internal/domains/account/model"
	"etm/shared"
	"etm/shared/constant"
	gModel "etm/shared/model"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username  string   `json:"username"   validate:"required,min=3,max=50"`
	Email     string   `json:"email"      validate:"required,email,max=255"`
	Password  string   `json:"password"   validate:"required,min=6,max=72"`
	FirstName string   `json:"first_name" validate:"omitempty,max=100"`
	LastName  string   `json:"last_name"  validate:"omitempty,max=100"`
	Roles     []string `json:"roles"      validate:"omitempty,dive,oneof=ADMIN USER SELLER BUYER"`
}

// Normalize lowercases the login names and fills the default role.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = shared.NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if len(r.Roles) == 0 {
		r.Roles = []string{constant.RoleUser}
	}

	slices.Sort(r.Roles)
	r.Roles = slices.Compact(r.Roles)
}

func (r *RegisterRequest) ToAccountModel(now time.Time, actor, hashedPassword string) accountModel.Account {
	return accountModel.Account{
		ID:        uuid.NewString(),
		Username:  r.Username,
		Email:     r.Email,
		Password:  hashedPassword,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Roles:     r.Roles,
		Enabled:   true,
		Metadata:  gModel.NewMetadata(now, actor),
	}
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (t *TokenResponse) FromToken(token *jwt.Token) {
	t.AccessToken = token.AccessToken
	t.TokenType = token.TokenType
	t.ExpiresIn = token.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72,nefield=CurrentPassword"`
}
