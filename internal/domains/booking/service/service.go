package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"etm/config"
	"etm/infras/otel"
	"etm/internal/domains/booking/event"
	"etm/internal/domains/booking/model"
	"etm/internal/domains/booking/model/dto"
	"etm/internal/domains/booking/repository"
	employeeModel "etm/internal/domains/employee/model"
	employeeRepo "etm/internal/domains/employee/repository"
	tripModel "etm/internal/domains/trip/model"
	tripRepo "etm/internal/domains/trip/repository"
	"etm/shared"
	"etm/shared/cache"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	gRepo "etm/shared/repository"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
)

var errDuplicateBooking = failure.Conflict("employee is already booked on this trip")

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, actor identity.Principal) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest, actor identity.Principal) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string, actor identity.Principal) error
}

type serviceImpl struct {
	repo         repository.Booking
	employeeRepo employeeRepo.Employee
	tripRepo     tripRepo.Trip
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	employeeRepo employeeRepo.Employee,
	tripRepo tripRepo.Trip,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		employeeRepo: employeeRepo,
		tripRepo:     tripRepo,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Create books an existing employee on an existing trip once.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, actor identity.Principal) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := req.ToModel(timezone.Now(), actor.Actor())
	if err != nil {
		return res, err
	}

	if err = s.checkPair(ctx, booking.EmployeeID, booking.TripID, constant.Empty); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errDuplicateBooking
		}

		if gRepo.IsForeignKeyViolation(err) {
			return res, failure.NotFound("employee or trip not found")
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publisher.Publish(ctx, event.NewBookingEvent(event.TypeCreated, booking, actor.Actor()))
	s.invalidate(ctx, model.CacheKeyGets)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Restrict(model.SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Update moves a booking to another employee or trip, keeping the pair unique.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest, actor identity.Principal) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	update, err := req.ToUpdate()
	if err != nil {
		return res, err
	}

	if update.EmployeeID != constant.Empty {
		booking.EmployeeID = update.EmployeeID
	}

	if update.TripID != constant.Empty {
		booking.TripID = update.TripID
	}

	if !update.RequestDate.IsZero() {
		booking.RequestDate = update.RequestDate
	}

	if update.Notes != nil {
		booking.Notes = update.Notes
	}

	if err = s.checkPair(ctx, booking.EmployeeID, booking.TripID, id); err != nil {
		return res, err
	}

	updatedFields := shared.TransformFields(update, actor.Actor())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errDuplicateBooking
		}

		log.Error().Err(err).Str("booking", id).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	booking.ModifiedBy = actor.Actor()
	booking.ModifiedAt, _ = updatedFields[constant.FieldModifiedAt].(time.Time)

	s.publisher.Publish(ctx, event.NewBookingEvent(event.TypeUpdated, booking, actor.Actor()))
	s.invalidate(ctx, model.CacheKeyGet, model.CacheKeyGets)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string, actor identity.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.publisher.Publish(ctx, event.NewBookingEvent(event.TypeDeleted, booking, actor.Actor()))
	s.invalidate(ctx, model.CacheKeyGet, model.CacheKeyGets)

	return nil
}

// checkPair requires both ends to exist and the pair to be free of any other booking.
func (s *serviceImpl) checkPair(ctx context.Context, employeeID, tripID, excludeID string) error {
	exist, err := s.employeeRepo.Exist(ctx, shared.FilterByID(employeeID, employeeModel.FieldID, employeeModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("employee", employeeID).Msg("failed to check employee")

		return fmt.Errorf("failed to check employee: %w", err)
	}

	if !exist {
		return failure.NotFound(fmt.Sprintf("employee %s not found", employeeID))
	}

	exist, err = s.tripRepo.Exist(ctx, shared.FilterByID(tripID, tripModel.FieldID, tripModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("trip", tripID).Msg("failed to check trip")

		return fmt.Errorf("failed to check trip: %w", err)
	}

	if !exist {
		return failure.NotFound(fmt.Sprintf("trip %s not found", tripID))
	}

	exist, err = s.repo.Exist(ctx, repository.ByPair(employeeID, tripID, excludeID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking pair")

		return fmt.Errorf("failed to check booking pair: %w", err)
	}

	if exist {
		return errDuplicateBooking
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if gRepo.IsInvalidText(err) {
		return booking, failure.NotFound(fmt.Sprintf("booking %s not found", id))
	}

	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(fmt.Sprintf("booking %s not found", id))
	}

	return booking, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save booking cache")
		}
	}()
}

// invalidate also drops employee and trip caches, whose responses list booked ids.
func (s *serviceImpl) invalidate(ctx context.Context, prefixes ...string) {
	prefixes = append(prefixes,
		employeeModel.CacheKeyGet, employeeModel.CacheKeyGets,
		tripModel.CacheKeyGet, tripModel.CacheKeyGets,
	)

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, prefixes...)
	}()
}
