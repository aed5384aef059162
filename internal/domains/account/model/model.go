package model

import (
	"slices"
	"time"

	"etm/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "accounts"
	EntityName = "account"

	FieldID       = "id"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldRoles    = "roles"
)

// SortableFields lists the columns a list request may order by.
var SortableFields = []string{FieldUsername, FieldEmail, "first_name", "last_name", "created_at"}

type Account struct {
	ID                string         `db:"id"`
	Username          string         `db:"username"`
	Email             string         `db:"email"`
	Password          string         `db:"password"`
	FirstName         string         `db:"first_name"`
	LastName          string         `db:"last_name"`
	Roles             pq.StringArray `db:"roles"`
	Enabled           bool           `db:"enabled"`
	Locked            bool           `db:"locked"`
	Expired           bool           `db:"expired"`
	PasswordChangedAt *time.Time     `db:"password_changed_at"`
	model.Metadata
}

// Usable reports whether the account may authenticate.
func (a Account) Usable() bool {
	return a.Enabled && !a.Locked && !a.Expired
}

func (a Account) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}
