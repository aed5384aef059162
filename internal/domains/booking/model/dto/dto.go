package dto

import (
	"time"

	"etm/internal/domains/booking/model"
	"etm/shared"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	gModel "etm/shared/model"
	"etm/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	EmployeeID  string  `json:"employee_id"  validate:"required,uuid"`
	TripID      string  `json:"trip_id"      validate:"required,uuid"`
	RequestDate string  `json:"request_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

// ToModel builds a booking requested now unless a request date was given.
func (c *CreateBookingRequest) ToModel(now time.Time, actor string) (model.Booking, error) {
	requestDate := now

	if c.RequestDate != "" {
		parsed, err := timezone.Parse(constant.DateFormat, c.RequestDate)
		if err != nil {
			return model.Booking{}, failure.BadRequest(err)
		}

		requestDate = parsed
	}

	return model.Booking{
		ID:          uuid.NewString(),
		EmployeeID:  c.EmployeeID,
		TripID:      c.TripID,
		RequestDate: requestDate,
		Notes:       c.Notes,
		Metadata:    gModel.NewMetadata(now, actor),
	}, nil
}

type UpdateBookingRequest struct {
	EmployeeID  string  `json:"employee_id"  validate:"omitempty,uuid"`
	TripID      string  `json:"trip_id"      validate:"omitempty,uuid"`
	RequestDate string  `json:"request_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.EmployeeID == "" && u.TripID == "" && u.RequestDate == "" && u.Notes == nil
}

// UpdateBooking is the column set written by an update.
type UpdateBooking struct {
	EmployeeID  string    `db:"employee_id"`
	TripID      string    `db:"trip_id"`
	RequestDate time.Time `db:"request_date"`
	Notes       *string   `db:"notes"`
}

func (u *UpdateBookingRequest) ToUpdate() (UpdateBooking, error) {
	update := UpdateBooking{
		EmployeeID: u.EmployeeID,
		TripID:     u.TripID,
		Notes:      u.Notes,
	}

	if u.RequestDate != "" {
		parsed, err := timezone.Parse(constant.DateFormat, u.RequestDate)
		if err != nil {
			return update, failure.BadRequest(err)
		}

		update.RequestDate = parsed
	}

	return update, nil
}

type BookingResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	TripID      string  `json:"trip_id"`
	RequestDate string  `json:"request_date"`
	Notes       *string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.EmployeeID = booking.EmployeeID
	r.TripID = booking.TripID
	r.RequestDate = timezone.Format(booking.RequestDate, constant.DateFormat)
	r.Notes = booking.Notes
	r.Metadata = gDto.NewMetadata(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Filter narrows a booking listing to an employee and/or a trip.
func Filter(employeeID, tripID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if employeeID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldEmployeeID,
			Value:    employeeID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if tripID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldTripID,
			Value:    tripID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return filter
}

// ValidateFilter rejects listing filters that cannot name a row.
func ValidateFilter(employeeID, tripID string) error {
	fields := map[string]string{}

	if employeeID != "" && !shared.ValidID(employeeID) {
		fields[model.FieldEmployeeID] = "must be a valid UUID"
	}

	if tripID != "" && !shared.ValidID(tripID) {
		fields[model.FieldTripID] = "must be a valid UUID"
	}

	if len(fields) > 0 {
		return failure.Validation("invalid booking filter", fields)
	}

	return nil
}
