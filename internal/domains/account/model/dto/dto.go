package dto

import (
	"slices"
	"time"

	"etm/internal/domains/account/model"
	"etm/shared"
	gDto "etm/shared/dto"

	"github.com/lib/pq"
)

type AccountResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
	Enabled   bool     `json:"enabled"`
	gDto.Metadata
}

func (r *AccountResponse) FromModel(account model.Account) {
	r.ID = account.ID
	r.Username = account.Username
	r.Email = account.Email
	r.FirstName = account.FirstName
	r.LastName = account.LastName
	r.Roles = slices.Clone([]string(account.Roles))
	r.Enabled = account.Enabled
	r.Metadata = gDto.NewMetadata(account.Metadata)
}

type GetAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetAccountsResponse) FromModels(models []model.Account, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Accounts = make([]AccountResponse, len(models))
	for i, mod := range models {
		r.Accounts[i].FromModel(mod)
	}
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=ADMIN USER SELLER BUYER"`
}

// UpdateRoles is the update payload for an account role change.
type UpdateRoles struct {
	Roles pq.StringArray `db:"roles"`
}

func (r *UpdateRolesRequest) ToUpdate() UpdateRoles {
	roles := slices.Clone(r.Roles)
	slices.Sort(roles)

	return UpdateRoles{Roles: slices.Compact(roles)}
}

// UpdatePassword is the update payload for a password change.
type UpdatePassword struct {
	Password          string    `db:"password"`
	PasswordChangedAt time.Time `db:"password_changed_at"`
}
