package model

import (
	"time"

	"etm/shared/model"
)

const (
	TableName  = "trips"
	EntityName = "trip"

	FieldID          = "id"
	FieldDescription = "description"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldStatus      = "status"
)

const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

const (
	CacheKeyGet  = "trip:get"
	CacheKeyGets = "trip:gets"
)

var SortableFields = []string{FieldDescription, FieldStartDate, FieldEndDate, FieldStatus, "created_at"}

type Trip struct {
	ID          string    `db:"id"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Status      string    `db:"status"`
	model.Metadata
}

// ValidPeriod reports whether the trip starts no later than it ends.
func (t *Trip) ValidPeriod() bool {
	return !t.StartDate.After(t.EndDate)
}
