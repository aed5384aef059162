// Package seed fills an empty database with demo employees, trips and bookings
// through the domain services, so every row passes the same validation as API input.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	bookingDto "etm/internal/domains/booking/model/dto"
	bookingService "etm/internal/domains/booking/service"
	employeeDto "etm/internal/domains/employee/model/dto"
	employeeService "etm/internal/domains/employee/service"
	tripModel "etm/internal/domains/trip/model"
	tripDto "etm/internal/domains/trip/model/dto"
	tripService "etm/internal/domains/trip/service"
	"etm/shared/constant"
	"etm/shared/failure"
	"etm/shared/identity"

	"github.com/rs/zerolog/log"
)

const (
	maxStartOffsetDays = 30
	maxTripLengthDays  = 10
	maxRequestAgeDays  = 90
)

var (
	firstNames = []string{"Mario", "Giulia", "Luca", "Sofia", "Marco", "Chiara", "Paolo", "Elena", "Davide", "Sara", "Andrea", "Martina"}
	lastNames  = []string{"Rossi", "Bianchi", "D'Angelo", "Romano", "Colombo", "Ricci", "Marino", "Greco", "De Luca", "Conti"}
	domains    = []string{"example.com", "etm.local", "travel.test"}
	capitals   = []string{"Rome", "Paris", "Madrid", "Berlin", "Lisbon", "Vienna", "Oslo", "Dublin", "Prague", "Athens", "Tokyo", "Ottawa"}
	notes      = []string{"Window seat please", "Arriving the evening before", "Needs a hotel near the office", "Vegetarian meals", ""}
	statuses   = []string{tripModel.StatusScheduled, tripModel.StatusInProgress, tripModel.StatusCompleted, tripModel.StatusCancelled}
)

var actor = identity.Principal{Username: "seed", Roles: []string{constant.RoleAdmin}}

type Counts struct {
	Employees int
	Trips     int
	Bookings  int
}

type Result struct {
	Employees int
	Trips     int
	Bookings  int
	Skipped   int
}

type Seeder struct {
	employees employeeService.Employee
	trips     tripService.Trip
	bookings  bookingService.Booking
	rng       *rand.Rand
	now       func() time.Time
}

func New(
	employees employeeService.Employee,
	trips tripService.Trip,
	bookings bookingService.Booking,
	rng *rand.Rand,
	now func() time.Time,
) *Seeder {
	return &Seeder{
		employees: employees,
		trips:     trips,
		bookings:  bookings,
		rng:       rng,
		now:       now,
	}
}

// Run creates the requested rows. Duplicates and dangling references are logged and skipped.
func (s *Seeder) Run(ctx context.Context, counts Counts) (res Result, err error) {
	employeeIDs := make([]string, 0, counts.Employees)

	for range counts.Employees {
		first, last := pick(s.rng, firstNames), pick(s.rng, lastNames)
		username := strings.ToLower(compact(first) + compact(last))
		email := fmt.Sprintf("%s.%s@%s", compact(first), compact(last), pick(s.rng, domains))

		employee, createErr := s.employees.Create(ctx, employeeDto.CreateEmployeeRequest{
			Username:  username,
			FirstName: first,
			LastName:  last,
			Email:     email,
		}, actor)
		if createErr != nil {
			if !skippable(createErr) {
				return res, fmt.Errorf("failed to seed employee: %w", createErr)
			}

			log.Warn().Str("username", username).Msg("employee already exists, skipping")

			res.Skipped++

			continue
		}

		employeeIDs = append(employeeIDs, employee.ID)
		res.Employees++
	}

	tripIDs := make([]string, 0, counts.Trips)
	today := s.now()

	for range counts.Trips {
		start := today.AddDate(0, 0, 1+s.rng.IntN(maxStartOffsetDays))
		end := start.AddDate(0, 0, 1+s.rng.IntN(maxTripLengthDays))

		trip, createErr := s.trips.Create(ctx, tripDto.CreateTripRequest{
			Description: "Trip to " + pick(s.rng, capitals),
			StartDate:   start.Format(constant.DateOnlyFormat),
			EndDate:     end.Format(constant.DateOnlyFormat),
			Status:      pick(s.rng, statuses),
		}, actor)
		if createErr != nil {
			return res, fmt.Errorf("failed to seed trip: %w", createErr)
		}

		tripIDs = append(tripIDs, trip.ID)
		res.Trips++
	}

	if len(employeeIDs) == 0 || len(tripIDs) == 0 {
		return res, nil
	}

	for range counts.Bookings {
		req := bookingDto.CreateBookingRequest{
			EmployeeID:  pick(s.rng, employeeIDs),
			TripID:      pick(s.rng, tripIDs),
			RequestDate: today.AddDate(0, 0, -s.rng.IntN(maxRequestAgeDays)).Format(constant.DateFormat),
		}

		if note := pick(s.rng, notes); note != "" {
			req.Notes = &note
		}

		if _, createErr := s.bookings.Create(ctx, req, actor); createErr != nil {
			if !skippable(createErr) {
				return res, fmt.Errorf("failed to seed booking: %w", createErr)
			}

			log.Warn().Str("employee", req.EmployeeID).Str("trip", req.TripID).Msg("booking already exists, skipping")

			res.Skipped++

			continue
		}

		res.Bookings++
	}

	return res, nil
}

func skippable(err error) bool {
	code := failure.GetCode(err)

	return code == http.StatusConflict || code == http.StatusNotFound
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}

func compact(name string) string {
	return strings.NewReplacer(" ", "", "'", "").Replace(name)
}
