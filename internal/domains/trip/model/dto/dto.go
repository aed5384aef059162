package dto

import (
	"time"

	"etm/internal/domains/trip/model"
	"etm/shared"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	gModel "etm/shared/model"
	"etm/shared/timezone"

	"github.com/google/uuid"
)

var errInvalidPeriod = failure.BadRequestFromString("start_date must not be after end_date")

type CreateTripRequest struct {
	Description string `json:"description" validate:"required,max=255"`
	StartDate   string `json:"start_date"  validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    validate:"required,datetime=2006-01-02"`
	Status      string `json:"status"      validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}

func (c *CreateTripRequest) ToModel(now time.Time, actor string) (model.Trip, error) {
	startDate, err := timezone.ParseDate(c.StartDate)
	if err != nil {
		return model.Trip{}, failure.BadRequest(err)
	}

	endDate, err := timezone.ParseDate(c.EndDate)
	if err != nil {
		return model.Trip{}, failure.BadRequest(err)
	}

	status := c.Status
	if status == "" {
		status = model.StatusScheduled
	}

	trip := model.Trip{
		ID:          uuid.NewString(),
		Description: c.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		Metadata:    gModel.NewMetadata(now, actor),
	}

	if !trip.ValidPeriod() {
		return model.Trip{}, errInvalidPeriod
	}

	return trip, nil
}

type UpdateTripRequest struct {
	Description string `json:"description" validate:"omitempty,max=255"`
	StartDate   string `json:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status"      validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}

func (u *UpdateTripRequest) IsEmpty() bool {
	return u.Description == "" && u.StartDate == "" && u.EndDate == "" && u.Status == ""
}

// UpdateTrip is the column set written by an update.
type UpdateTrip struct {
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Status      string    `db:"status"`
}

// Merge applies the request on top of the stored trip and checks the resulting period.
func (u *UpdateTripRequest) Merge(trip model.Trip) (UpdateTrip, error) {
	if u.Description != "" {
		trip.Description = u.Description
	}

	if u.Status != "" {
		trip.Status = u.Status
	}

	if u.StartDate != "" {
		startDate, err := timezone.ParseDate(u.StartDate)
		if err != nil {
			return UpdateTrip{}, failure.BadRequest(err)
		}

		trip.StartDate = startDate
	}

	if u.EndDate != "" {
		endDate, err := timezone.ParseDate(u.EndDate)
		if err != nil {
			return UpdateTrip{}, failure.BadRequest(err)
		}

		trip.EndDate = endDate
	}

	if !trip.ValidPeriod() {
		return UpdateTrip{}, errInvalidPeriod
	}

	return UpdateTrip{
		Description: trip.Description,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Status:      trip.Status,
	}, nil
}

type TripResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Status      string   `json:"status"`
	EmployeeIDs []string `json:"employee_ids"`
	gDto.Metadata
}

func (r *TripResponse) FromModel(trip model.Trip, employeeIDs []string) {
	r.ID = trip.ID
	r.Description = trip.Description
	r.StartDate = timezone.FormatDate(trip.StartDate)
	r.EndDate = timezone.FormatDate(trip.EndDate)
	r.Status = trip.Status
	r.Metadata = gDto.NewMetadata(trip.Metadata)

	r.EmployeeIDs = employeeIDs
	if r.EmployeeIDs == nil {
		r.EmployeeIDs = []string{}
	}
}

type GetTripsResponse struct {
	Trips     []TripResponse `json:"trips"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

// FromModels builds the page; employees maps trip id to its booked employee ids.
func (r *GetTripsResponse) FromModels(models []model.Trip, employees map[string][]string, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Trips = make([]TripResponse, len(models))
	for i, mod := range models {
		r.Trips[i].FromModel(mod, employees[mod.ID])
	}
}

// IDs returns the ids of the given trips in order.
func IDs(models []model.Trip) []string {
	ids := make([]string, len(models))
	for i, mod := range models {
		ids[i] = mod.ID
	}

	return ids
}

// Filter narrows a trip listing by status and a description search term.
func Filter(status, search string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if status != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Value:    status,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if search != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDescription,
			Value:    search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return filter
}
