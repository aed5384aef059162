package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"etm/config"
	"etm/infras/otel"
	"etm/infras/postgres"
	bookingModel "etm/internal/domains/booking/model"
	bookingRepo "etm/internal/domains/booking/repository"
	employeeModel "etm/internal/domains/employee/model"
	"etm/internal/domains/trip/model"
	"etm/internal/domains/trip/model/dto"
	"etm/internal/domains/trip/repository"
	"etm/shared"
	"etm/shared/cache"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	gRepo "etm/shared/repository"
	"etm/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Trip interface {
	Create(ctx context.Context, req dto.CreateTripRequest, actor identity.Principal) (dto.TripResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTripsResponse, error)
	Get(ctx context.Context, id string) (dto.TripResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTripRequest, actor identity.Principal) (dto.TripResponse, error)
	Delete(ctx context.Context, id string, actor identity.Principal) error
}

type serviceImpl struct {
	repo        repository.Trip
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Trip,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Trip {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTripRequest, actor identity.Principal) (res dto.TripResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trip.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	trip, err := req.ToModel(timezone.Now(), actor.Actor())
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, trip); err != nil {
		log.Error().Err(err).Msg("failed to create trip")

		return res, fmt.Errorf("failed to create trip: %w", err)
	}

	s.invalidate(ctx, model.CacheKeyGets)

	res.FromModel(trip, nil)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTripsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trip.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Restrict(model.SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for trips")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count trips")

		return res, fmt.Errorf("failed to count trips: %w", err)
	}

	trips, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trips")

		return res, fmt.Errorf("failed to get trips: %w", err)
	}

	employees, err := s.bookingRepo.EmployeeIDsByTrips(ctx, dto.IDs(trips)...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip employees")

		return res, fmt.Errorf("failed to get trip employees: %w", err)
	}

	res.FromModels(trips, employees, total, params.Limit)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TripResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trip.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for trip")

		return res, nil
	}

	trip, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res, err = s.toResponse(ctx, trip)
	if err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateTripRequest, actor identity.Principal) (res dto.TripResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trip.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	trip, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	update, err := req.Merge(trip)
	if err != nil {
		return res, err
	}

	updatedFields := shared.TransformFields(update, actor.Actor())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("trip", id).Msg("failed to update trip")

		return res, fmt.Errorf("failed to update trip: %w", err)
	}

	s.invalidate(ctx, model.CacheKeyGet, model.CacheKeyGets)

	trip.Description = update.Description
	trip.StartDate = update.StartDate
	trip.EndDate = update.EndDate
	trip.Status = update.Status
	trip.ModifiedBy = actor.Actor()
	trip.ModifiedAt, _ = updatedFields[constant.FieldModifiedAt].(time.Time)

	return s.toResponse(ctx, trip)
}

// Delete removes the trip together with its bookings.
func (s *serviceImpl) Delete(ctx context.Context, id string, actor identity.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trip.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookingRepo.DeleteTx(ctx, tx, shared.FilterByField(bookingModel.FieldTripID, id, bookingModel.TableName)); err != nil {
			return err
		}

		return s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		log.Error().Err(err).Str("trip", id).Msg("failed to delete trip")

		return fmt.Errorf("failed to delete trip: %w", err)
	}

	log.Info().Str("trip", id).Str("actor", actor.Actor()).Msg("trip deleted")

	s.invalidate(ctx,
		model.CacheKeyGet, model.CacheKeyGets,
		bookingModel.CacheKeyGet, bookingModel.CacheKeyGets,
		employeeModel.CacheKeyGet, employeeModel.CacheKeyGets,
	)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Trip, error) {
	trip, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if gRepo.IsInvalidText(err) {
		return trip, failure.NotFound(fmt.Sprintf("trip %s not found", id))
	}

	if err != nil {
		log.Error().Err(err).Str("trip", id).Msg("failed to get trip")

		return trip, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.ID == constant.Empty {
		return trip, failure.NotFound(fmt.Sprintf("trip %s not found", id))
	}

	return trip, nil
}

func (s *serviceImpl) toResponse(ctx context.Context, trip model.Trip) (res dto.TripResponse, err error) {
	employees, err := s.bookingRepo.EmployeeIDsByTrips(ctx, trip.ID)
	if err != nil {
		log.Error().Err(err).Str("trip", trip.ID).Msg("failed to get trip employees")

		return res, fmt.Errorf("failed to get trip employees: %w", err)
	}

	res.FromModel(trip, employees[trip.ID])

	return res, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save trip cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, prefixes ...string) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, prefixes...)
	}()
}
