package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"etm/config"
	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/infras/s3"
	bookingModel "etm/internal/domains/booking/model"
	bookingRepo "etm/internal/domains/booking/repository"
	"etm/internal/domains/employee/model"
	"etm/internal/domains/employee/model/dto"
	"etm/internal/domains/employee/repository"
	tripModel "etm/internal/domains/trip/model"
	tripDto "etm/internal/domains/trip/model/dto"
	tripRepo "etm/internal/domains/trip/repository"
	"etm/shared"
	"etm/shared/cache"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	gRepo "etm/shared/repository"
	"etm/shared/timezone"
	"etm/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Employee interface {
	Create(ctx context.Context, req dto.CreateEmployeeRequest, actor identity.Principal) (dto.EmployeeResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEmployeesResponse, error)
	Get(ctx context.Context, id string) (dto.EmployeeResponse, error)
	GetTrips(ctx context.Context, id string, params gDto.QueryParams) (tripDto.GetTripsResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateEmployeeRequest, actor identity.Principal) (dto.EmployeeResponse, error)
	UploadAvatar(ctx context.Context, id string, req dto.UploadAvatarRequest, actor identity.Principal) (dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string, actor identity.Principal) error
}

type serviceImpl struct {
	repo        repository.Employee
	tripRepo    tripRepo.Trip
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	s3          s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Employee,
	tripRepo tripRepo.Trip,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Employee {
	return &serviceImpl{
		repo:        repo,
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		s3:          s3,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateEmployeeRequest, actor identity.Principal) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = s.ensureUsernameFree(ctx, req.Username, constant.Empty); err != nil {
		return res, err
	}

	employee := req.ToModel(timezone.Now(), actor.Actor())

	if err = s.repo.Insert(ctx, employee); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, conflict(err, req.Username, req.Email)
		}

		log.Error().Err(err).Msg("failed to create employee")

		return res, fmt.Errorf("failed to create employee: %w", err)
	}

	s.invalidate(ctx, model.CacheKeyGets)

	res.FromModel(employee, nil)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEmployeesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Restrict(model.SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGets, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for employees")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count employees")

		return res, fmt.Errorf("failed to count employees: %w", err)
	}

	employees, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get employees")

		return res, fmt.Errorf("failed to get employees: %w", err)
	}

	trips, err := s.bookingRepo.TripIDsByEmployees(ctx, dto.IDs(employees)...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get employee trips")

		return res, fmt.Errorf("failed to get employee trips: %w", err)
	}

	res.FromModels(employees, trips, total, params.Limit)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for employee")

		return res, nil
	}

	employee, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res, err = s.toResponse(ctx, employee)
	if err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// GetTrips lists the trips the employee is booked on.
func (s *serviceImpl) GetTrips(ctx context.Context, id string, params gDto.QueryParams) (res tripDto.GetTripsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.GetTrips")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	params.Restrict(tripModel.SortableFields...)

	tripIDs, err := s.bookingRepo.TripIDsByEmployees(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to get employee trip ids")

		return res, fmt.Errorf("failed to get employee trip ids: %w", err)
	}

	if len(tripIDs[id]) == 0 {
		res.FromModels(nil, nil, 0, params.Limit)

		return res, nil
	}

	filter := tripRepo.ByIDs(tripIDs[id])

	total, err := s.tripRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to count employee trips")

		return res, fmt.Errorf("failed to count employee trips: %w", err)
	}

	trips, err := s.tripRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to get employee trips")

		return res, fmt.Errorf("failed to get employee trips: %w", err)
	}

	employees, err := s.bookingRepo.EmployeeIDsByTrips(ctx, tripDto.IDs(trips)...)
	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to get trip employees")

		return res, fmt.Errorf("failed to get trip employees: %w", err)
	}

	res.FromModels(trips, employees, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateEmployeeRequest, actor identity.Principal) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	employee, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Username != "" && req.Username != employee.Username {
		if err = s.ensureUsernameFree(ctx, req.Username, id); err != nil {
			return res, err
		}
	}

	updatedFields := shared.TransformFields(req.ToUpdate(), actor.Actor())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, conflict(err, req.Username, req.Email)
		}

		log.Error().Err(err).Str("employee", id).Msg("failed to update employee")

		return res, fmt.Errorf("failed to update employee: %w", err)
	}

	s.invalidate(ctx, model.CacheKeyGet, model.CacheKeyGets)

	req.Apply(&employee)
	employee.ModifiedBy = actor.Actor()
	employee.ModifiedAt, _ = updatedFields[constant.FieldModifiedAt].(time.Time)

	return s.toResponse(ctx, employee)
}

// UploadAvatar stores the image under avatars/<id>.<ext> and records its public URL.
func (s *serviceImpl) UploadAvatar(ctx context.Context, id string, req dto.UploadAvatarRequest, actor identity.Principal) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.UploadAvatar")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	employee, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fileName := fmt.Sprintf("%s.%s", employee.ID, req.Extension())

	url, err := s.s3.UploadFile(ctx, constant.AvatarDirectory, fileName, req.ContentType, req.Body, req.Size)
	if errors.Is(err, s3.ErrNotConfigured) {
		return res, failure.ServiceUnavailable("avatar storage is not configured")
	}

	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to upload avatar")

		return res, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdateAvatar{AvatarURL: url}, actor.Actor())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to save avatar url")

		return res, fmt.Errorf("failed to save avatar url: %w", err)
	}

	if employee.AvatarURL != nil {
		s.removeStaleAvatar(ctx, *employee.AvatarURL, path.Join(constant.AvatarDirectory, fileName))
	}

	s.invalidate(ctx, model.CacheKeyGet, model.CacheKeyGets)

	employee.AvatarURL = &url
	employee.ModifiedBy = actor.Actor()
	employee.ModifiedAt, _ = updatedFields[constant.FieldModifiedAt].(time.Time)

	return s.toResponse(ctx, employee)
}

// Delete removes the employee together with its bookings.
func (s *serviceImpl) Delete(ctx context.Context, id string, actor identity.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Employee.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	employee, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookingRepo.DeleteTx(ctx, tx, shared.FilterByField(bookingModel.FieldEmployeeID, id, bookingModel.TableName)); err != nil {
			return err
		}

		return s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to delete employee")

		return fmt.Errorf("failed to delete employee: %w", err)
	}

	log.Info().Str("employee", employee.Username).Str("actor", actor.Actor()).Msg("employee deleted")

	if employee.AvatarURL != nil {
		s.removeStaleAvatar(ctx, *employee.AvatarURL, constant.Empty)
	}

	s.invalidate(ctx,
		model.CacheKeyGet, model.CacheKeyGets,
		bookingModel.CacheKeyGet, bookingModel.CacheKeyGets,
		tripModel.CacheKeyGet, tripModel.CacheKeyGets,
	)

	return nil
}

func (s *serviceImpl) ensureUsernameFree(ctx context.Context, username, excludeID string) error {
	exist, err := s.repo.Exist(ctx, repository.ByUsername(username, excludeID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check employee username")

		return fmt.Errorf("failed to check employee username: %w", err)
	}

	if exist {
		return failure.Conflict(fmt.Sprintf("username %s is already taken", username))
	}

	return nil
}

// conflict names the field a unique violation collided with.
func conflict(err error, username, email string) error {
	if gRepo.ViolatedConstraint(err) == model.ConstraintEmail {
		return failure.Conflict(fmt.Sprintf("email %s is already in use", email))
	}

	return failure.Conflict(fmt.Sprintf("username %s is already taken", username))
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Employee, error) {
	employee, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if gRepo.IsInvalidText(err) {
		return employee, failure.NotFound(fmt.Sprintf("employee %s not found", id))
	}

	if err != nil {
		log.Error().Err(err).Str("employee", id).Msg("failed to get employee")

		return employee, fmt.Errorf("failed to get employee: %w", err)
	}

	if employee.ID == constant.Empty {
		return employee, failure.NotFound(fmt.Sprintf("employee %s not found", id))
	}

	return employee, nil
}

func (s *serviceImpl) toResponse(ctx context.Context, employee model.Employee) (res dto.EmployeeResponse, err error) {
	trips, err := s.bookingRepo.TripIDsByEmployees(ctx, employee.ID)
	if err != nil {
		log.Error().Err(err).Str("employee", employee.ID).Msg("failed to get employee trips")

		return res, fmt.Errorf("failed to get employee trips: %w", err)
	}

	res.FromModel(employee, trips[employee.ID])

	return res, nil
}

// removeStaleAvatar deletes the previous avatar object unless it was just overwritten.
func (s *serviceImpl) removeStaleAvatar(ctx context.Context, oldURL, currentObject string) {
	objectName := s.s3.GetObjectNameFromURL(oldURL)
	if objectName == constant.Empty || objectName == currentObject {
		return
	}

	go func() {
		if err := s.s3.DeleteFile(context.WithoutCancel(ctx), objectName); err != nil {
			log.Warn().Err(err).Str("object", objectName).Msg("failed to delete stale avatar")
		}
	}()
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save employee cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, prefixes ...string) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, prefixes...)
	}()
}
