package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"etm/config"
	otelMocks "etm/infras/otel/mocks"
	"etm/internal/domains/booking/event"
	bookingMocks "etm/internal/domains/booking/mocks"
	"etm/internal/domains/booking/model"
	"etm/internal/domains/booking/model/dto"
	"etm/internal/domains/booking/service"
	employeeMocks "etm/internal/domains/employee/mocks"
	tripMocks "etm/internal/domains/trip/mocks"
	"etm/shared/cache"
	cacheMocks "etm/shared/cache/mocks"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
)

const (
	employeeID = "6f1c2a44-0d4e-4d53-9a55-1f0e7f3f6a01"
	tripID     = "0b7e59d2-3a1f-4a57-8c7c-5a8e2c4d9b02"
)

var admin = identity.Principal{AccountID: "a0", Username: "admin", Roles: []string{"ADMIN"}}

type deps struct {
	repo         *bookingMocks.MockBooking
	employeeRepo *employeeMocks.MockEmployee
	tripRepo     *tripMocks.MockTrip
	publisher    *bookingMocks.MockPublisher
}

func newService(t *testing.T, redisCache cache.RedisCache) (service.Booking, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		repo:         bookingMocks.NewMockBooking(ctrl),
		employeeRepo: employeeMocks.NewMockEmployee(ctrl),
		tripRepo:     tripMocks.NewMockTrip(ctrl),
		publisher:    bookingMocks.NewMockPublisher(ctrl),
	}

	cfg := config.Defaults()
	ot := otelMocks.NewOtel()

	if redisCache == nil {
		redisCache = cache.NewRedisCache(nil, ot)
	}

	return service.New(d.repo, d.employeeRepo, d.tripRepo, d.publisher, &cfg, redisCache, ot), d
}

func expectBothExist(d deps) {
	d.employeeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	d.tripRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "books employee on trip",
			setupMock: func(d deps) {
				expectBothExist(d)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, employeeID, booking.EmployeeID)
						assert.Equal(t, tripID, booking.TripID)
						assert.False(t, booking.RequestDate.IsZero())

						return nil
					})
				d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, evt event.BookingEvent) {
						assert.Equal(t, event.TypeCreated, evt.Type)
						assert.Equal(t, "admin", evt.Actor)
					})
			},
		},
		{
			name: "unknown employee",
			setupMock: func(d deps) {
				d.employeeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown trip",
			setupMock: func(d deps) {
				d.employeeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				d.tripRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate pair",
			setupMock: func(d deps) {
				expectBothExist(d)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent duplicate caught by constraint",
			setupMock: func(d deps) {
				expectBothExist(d)
				d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(d deps) {
				d.employeeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t, nil)
			tt.setupMock(d)

			res, err := svc.Create(context.Background(), dto.CreateBookingRequest{EmployeeID: employeeID, TripID: tripID}, admin)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, employeeID, res.EmployeeID)
		})
	}
}

func TestBookingService_DuplicateKeepsFirst(t *testing.T) {
	svc, d := newService(t, nil)

	var first model.Booking

	expectBothExist(d)
	d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking) error {
			first = booking

			return nil
		})
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	req := dto.CreateBookingRequest{EmployeeID: employeeID, TripID: tripID}

	created, err := svc.Create(context.Background(), req, admin)
	require.NoError(t, err)

	expectBothExist(d)
	d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err = svc.Create(context.Background(), req, admin)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(first, nil)

	fetched, err := svc.Get(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)
		svc, _ := newService(t, redisCache)

		redisCache.EXPECT().Get(gomock.Any(), "booking:get:b1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				value.(*dto.BookingResponse).ID = "b1"

				return nil
			})

		res, err := svc.Get(context.Background(), "b1")

		require.NoError(t, err)
		assert.Equal(t, "b1", res.ID)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "b9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

		_, err := svc.Get(context.Background(), "abc")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	stored := model.Booking{ID: "b1", EmployeeID: employeeID, TripID: tripID}
	otherTrip := "9a0d7c15-2b6e-4c3f-8e41-7d2f6b1a3c03"

	t.Run("move to another trip", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		expectBothExist(d)
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				where, _, err := filter.ToSql()
				require.NoError(t, err)
				assert.Contains(t, where, "bookings.id <> ?")

				values := filter.Values()
				assert.Equal(t, otherTrip, values["trip_id"])
				assert.Equal(t, "b1", values["id"])

				return false, nil
			})
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, otherTrip, fields["trip_id"])
				assert.NotContains(t, fields, "employee_id")

				return nil
			})
		d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		res, err := svc.Update(context.Background(), "b1", dto.UpdateBookingRequest{TripID: otherTrip}, admin)

		require.NoError(t, err)
		assert.Equal(t, otherTrip, res.TripID)
		assert.Equal(t, employeeID, res.EmployeeID)
	})

	t.Run("pair already booked by another booking", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		expectBothExist(d)
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Update(context.Background(), "b1", dto.UpdateBookingRequest{TripID: otherTrip}, admin)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Update(context.Background(), "b1", dto.UpdateBookingRequest{TripID: otherTrip}, admin)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("deletes and publishes", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1"}, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, evt event.BookingEvent) {
				assert.Equal(t, event.TypeDeleted, evt.Type)
			})

		assert.NoError(t, svc.Delete(context.Background(), "b1", admin))
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, d := newService(t, nil)

		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(svc.Delete(context.Background(), "b1", admin)))
	})
}
