package model

import (
	"time"

	"etm/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldEmployeeID  = "employee_id"
	FieldTripID      = "trip_id"
	FieldRequestDate = "request_date"
	FieldNotes       = "notes"
)

const (
	CacheKeyGet  = "booking:get"
	CacheKeyGets = "booking:gets"
)

var SortableFields = []string{FieldRequestDate, FieldEmployeeID, FieldTripID, "created_at"}

type Booking struct {
	ID          string    `db:"id"`
	EmployeeID  string    `db:"employee_id"`
	TripID      string    `db:"trip_id"`
	RequestDate time.Time `db:"request_date"`
	Notes       *string   `db:"notes"`
	model.Metadata
}

// Pair links one employee to one trip.
type Pair struct {
	EmployeeID string `db:"employee_id"`
	TripID     string `db:"trip_id"`
}
