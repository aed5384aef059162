package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"etm/config"
	otelMocks "etm/infras/otel/mocks"
	postgresMocks "etm/infras/postgres/mocks"
	bookingMocks "etm/internal/domains/booking/mocks"
	tripMocks "etm/internal/domains/trip/mocks"
	"etm/internal/domains/trip/model"
	"etm/internal/domains/trip/model/dto"
	"etm/internal/domains/trip/service"
	"etm/shared/cache"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
)

var admin = identity.Principal{AccountID: "a0", Username: "admin", Roles: []string{"ADMIN"}}

type deps struct {
	repo        *tripMocks.MockTrip
	bookingRepo *bookingMocks.MockBooking
	transactor  *postgresMocks.MockTransactor
}

func newService(t *testing.T) (service.Trip, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		repo:        tripMocks.NewMockTrip(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		transactor:  postgresMocks.NewMockTransactor(ctrl),
	}

	cfg := config.Defaults()
	ot := otelMocks.NewOtel()

	return service.New(d.repo, d.bookingRepo, d.transactor, &cfg, cache.NewRedisCache(nil, ot), ot), d
}

func date(value string) time.Time {
	parsed, _ := time.Parse(time.DateOnly, value)

	return parsed
}

func storedTrip() model.Trip {
	return model.Trip{
		ID:          "t1",
		Description: "Client visit",
		StartDate:   date("2024-05-01"),
		EndDate:     date("2024-05-03"),
		Status:      model.StatusScheduled,
	}
}

func TestTripService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTripRequest
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "defaults status to scheduled",
			req:  dto.CreateTripRequest{Description: "Client visit", StartDate: "2024-05-01", EndDate: "2024-05-01"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, trip model.Trip) error {
						assert.Equal(t, model.StatusScheduled, trip.Status)
						assert.Equal(t, "admin", trip.CreatedBy)
						assert.NotEmpty(t, trip.ID)

						return nil
					})
			},
		},
		{
			name:      "start after end is rejected",
			req:       dto.CreateTripRequest{Description: "Backwards", StartDate: "2024-05-03", EndDate: "2024-05-01"},
			setupMock: func(_ deps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "repository error",
			req:  dto.CreateTripRequest{Description: "Client visit", StartDate: "2024-05-01", EndDate: "2024-05-02", Status: model.StatusCompleted},
			setupMock: func(d deps) {
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.Create(context.Background(), tt.req, admin)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.StartDate, res.StartDate)
			assert.Equal(t, []string{}, res.EmployeeIDs)
		})
	}
}

func TestTripService_Get(t *testing.T) {
	t.Run("found with booked employees", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTrip(), nil)
		d.bookingRepo.EXPECT().EmployeeIDsByTrips(gomock.Any(), "t1").
			Return(map[string][]string{"t1": {"e1", "e2"}}, nil)

		res, err := svc.Get(context.Background(), "t1")

		require.NoError(t, err)
		assert.Equal(t, "t1", res.ID)
		assert.Equal(t, "2024-05-01", res.StartDate)
		assert.Equal(t, []string{"e1", "e2"}, res.EmployeeIDs)
	})

	t.Run("missing trip", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Trip{}, nil)

		_, err := svc.Get(context.Background(), "nope")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Trip{}, &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

		_, err := svc.Get(context.Background(), "abc")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTripService_GetAll(t *testing.T) {
	svc, d := newService(t)

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password", SortDir: "ASC"}
	trips := []model.Trip{storedTrip(), {ID: "t2", Description: "Offsite", StartDate: date("2024-06-01"), EndDate: date("2024-06-02")}}

	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Trip, error) {
			assert.Equal(t, "created_at", p.SortBy)

			return trips, nil
		})
	d.bookingRepo.EXPECT().EmployeeIDsByTrips(gomock.Any(), "t1", "t2").
		Return(map[string][]string{"t1": {"e1"}}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Equal(t, []string{"e1"}, res.Trips[0].EmployeeIDs)
	assert.Equal(t, []string{}, res.Trips[1].EmployeeIDs)
}

func TestTripService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateTripRequest
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "partial update keeps stored dates",
			req:  dto.UpdateTripRequest{Status: model.StatusInProgress},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTrip(), nil)
				d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusInProgress, fields["status"])
						assert.Equal(t, date("2024-05-01"), fields["start_date"].(time.Time).UTC())
						assert.Equal(t, "admin", fields["modified_by"])

						return nil
					})
				d.bookingRepo.EXPECT().EmployeeIDsByTrips(gomock.Any(), "t1").Return(nil, nil)
			},
		},
		{
			name: "new end before stored start",
			req:  dto.UpdateTripRequest{EndDate: "2024-04-30"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTrip(), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing trip",
			req:  dto.UpdateTripRequest{Description: "x"},
			setupMock: func(d deps) {
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Trip{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.Update(context.Background(), "t1", tt.req, admin)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusInProgress, res.Status)
			assert.Equal(t, "admin", res.ModifiedBy)
		})
	}
}

func TestTripService_Delete(t *testing.T) {
	runTx := func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
		return fn(nil)
	}

	t.Run("deletes bookings then trip in one transaction", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTrip(), nil)
		d.transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
		gomock.InOrder(
			d.bookingRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) error {
					assert.Equal(t, "t1", filter.Values()["trip_id"])

					return nil
				}),
			d.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		assert.NoError(t, svc.Delete(context.Background(), "t1", admin))
	})

	t.Run("booking delete failure aborts", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTrip(), nil)
		d.transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
		d.bookingRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := svc.Delete(context.Background(), "t1", admin)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("missing trip", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Trip{}, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(svc.Delete(context.Background(), "t1", admin)))
	})
}
