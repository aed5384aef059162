package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/internal/domains/booking/model"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/logger"
	gRepo "etm/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	TripIDsByEmployees(ctx context.Context, employeeIDs ...string) (map[string][]string, error)
	EmployeeIDsByTrips(ctx context.Context, tripIDs ...string) (map[string][]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ByPair matches the booking of employeeID on tripID, skipping excludeID when it is set.
func ByPair(employeeID, tripID, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldEmployeeID,
			Value:    employeeID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTripID,
			Value:    tripID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

// TripIDsByEmployees maps each employee to the trips it is booked on.
func (repo *repositoryImpl) TripIDsByEmployees(ctx context.Context, employeeIDs ...string) (map[string][]string, error) {
	pairs, err := repo.pairs(ctx, "TripIDsByEmployees", model.FieldEmployeeID, employeeIDs)
	if err != nil {
		return nil, err
	}

	res := make(map[string][]string, len(employeeIDs))
	for _, pair := range pairs {
		res[pair.EmployeeID] = append(res[pair.EmployeeID], pair.TripID)
	}

	return res, nil
}

// EmployeeIDsByTrips maps each trip to the employees booked on it.
func (repo *repositoryImpl) EmployeeIDsByTrips(ctx context.Context, tripIDs ...string) (map[string][]string, error) {
	pairs, err := repo.pairs(ctx, "EmployeeIDsByTrips", model.FieldTripID, tripIDs)
	if err != nil {
		return nil, err
	}

	res := make(map[string][]string, len(tripIDs))
	for _, pair := range pairs {
		res[pair.TripID] = append(res[pair.TripID], pair.EmployeeID)
	}

	return res, nil
}

func (repo *repositoryImpl) pairs(ctx context.Context, operation, column string, ids []string) ([]model.Pair, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, model.EntityName, operation))
	defer scope.End()

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := gRepo.Builder.
		Select(model.FieldEmployeeID, model.FieldTripID).
		From(model.TableName).
		Where(sq.Eq{column: ids}).
		OrderBy(model.FieldRequestDate, model.FieldID).
		ToSql()
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var pairs []model.Pair

	if err = repo.db.Read.SelectContext(ctx, &pairs, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booking pairs (%s): %w", model.EntityName, err)
	}

	return pairs, nil
}
