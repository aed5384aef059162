package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/internal/domains/trip/model"
	gDto "etm/shared/dto"
	gRepo "etm/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Trip interface {
	Insert(ctx context.Context, model model.Trip) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Trip, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Trip, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Trip]
}

func New(db *postgres.Connection, otel otel.Otel) Trip {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Trip](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ByIDs matches every trip whose id is listed.
func ByIDs(ids []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    ids,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}
}
