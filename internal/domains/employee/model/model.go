package model

import (
	"etm/shared/model"
)

const (
	TableName  = "employees"
	EntityName = "employee"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldAvatarURL = "avatar_url"
)

// Unique constraints on the employees table.
const (
	ConstraintUsername = "employees_username_key"
	ConstraintEmail    = "employees_email_key"
)

const (
	CacheKeyGet  = "employee:get"
	CacheKeyGets = "employee:gets"
)

var SortableFields = []string{FieldUsername, FieldFirstName, FieldLastName, FieldEmail, "created_at"}

type Employee struct {
	ID        string  `db:"id"`
	Username  string  `db:"username"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Email     string  `db:"email"`
	AvatarURL *string `db:"avatar_url"`
	model.Metadata
}
