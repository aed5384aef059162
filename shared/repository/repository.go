package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/shared/constant"
	"etm/shared/dto"
	"etm/shared/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
)

// Builder renders statements with Postgres placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type column struct {
	name  string
	index []int
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository is a reflection driven CRUD repository over the table backing T.
// Columns come from db tags, including those of embedded structs; "-" skips a field.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns := getColumns(reflect.TypeOf(zero), nil)

	insertColumns := make([]string, 0, len(columns))
	for _, col := range columns {
		insertColumns = append(insertColumns, col.name)
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) values(model T) []any {
	value := reflect.ValueOf(model)
	values := make([]any, 0, len(repo.columns))

	for _, col := range repo.columns {
		values = append(values, value.FieldByIndex(col.index).Interface())
	}

	return values
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, models ...T) error {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()

	builder := Builder.Insert(repo.table).Columns(repo.InsertColumns...)
	for _, model := range models {
		builder = builder.Values(repo.values(model)...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return repo.fail(scope, "build insert", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model)
}

// InsertBulk writes every model in a single multi-row INSERT.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, repo.db.Write, models...)
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, sqltx, models...)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	if filter.IsEmpty() {
		return false, errRequiredFilter
	}

	query, args, err := Builder.
		Select("1").
		Prefix("SELECT EXISTS(").
		From(repo.table).
		Where(filter).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, repo.fail(scope, "build exist query", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exist := false

	if err = repo.db.Read.GetContext(ctx, &exist, query, args...); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var model T

	builder := Builder.Select(repo.selectColumns(columns...)...).From(repo.table)
	if !filter.IsEmpty() {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model, repo.fail(scope, "build get query", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &model, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

// GetAll pages with LIMIT/OFFSET when Limit is set, and orders only
// when SortBy and SortDir are set. Callers validate SortBy against their columns.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	builder := Builder.Select(repo.selectColumns(columns...)...).From(repo.table)
	if !filter.IsEmpty() {
		builder = builder.Where(filter)
	}

	if params.SortBy != "" && params.SortDir != "" {
		builder = builder.OrderBy(params.SortBy + " " + params.SortDir)
	}

	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))

		if offset := params.Offset(); offset > 0 {
			builder = builder.Offset(uint64(offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repo.fail(scope, "build list query", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var models []T

	if err = repo.db.Read.SelectContext(ctx, &models, query, args...); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	builder := Builder.Select(fmt.Sprintf("COUNT(%s.%s)", repo.table, repo.primaryColumn)).From(repo.table)
	if !filter.IsEmpty() {
		builder = builder.Where(filter)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, repo.fail(scope, "build count query", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	if err = repo.db.Read.GetContext(ctx, &count, query, args...); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "delete")
	defer scope.End()

	if filter.IsEmpty() {
		return errRequiredFilter
	}

	query, args, err := Builder.Delete(repo.table).Where(filter).ToSql()
	if err != nil {
		return repo.fail(scope, "build delete", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, sqltx, filter)
}

// update sets columns in sorted key order.
func (repo *Repository[T]) update(ctx context.Context, exec execer, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()

	if filter.IsEmpty() {
		return errRequiredFilter
	}

	query, args, err := Builder.Update(repo.table).SetMap(mod).Where(filter).ToSql()
	if err != nil {
		return repo.fail(scope, "build update", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, mod, filter)
}

// selectColumns qualifies every mapped column with the table, keeping only the
// requested ones when any are given.
func (repo *Repository[T]) selectColumns(requested ...string) []string {
	columns := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(requested) > 0 && !slices.Contains(requested, col.name) {
			continue
		}

		columns = append(columns, repo.table+"."+col.name)
	}

	return columns
}

func getColumns(reflectType reflect.Type, parent []int) []column {
	var columns []column

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		index := append(slices.Clone(parent), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, getColumns(field.Type, index)...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		columns = append(columns, column{name: dbTag, index: index})
	}

	return columns
}
