package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/infras/otel/mocks"
	"etm/infras/postgres"
	"etm/internal/domains/booking/repository"
)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")

	return repository.New(&postgres.Connection{Read: db, Write: db}, mocks.NewOtel()), mock
}

func TestTripIDsByEmployees(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT employee_id, trip_id FROM bookings WHERE employee_id IN ($1,$2) ORDER BY request_date, id")).
		WithArgs("e1", "e2").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "trip_id"}).
			AddRow("e1", "t1").
			AddRow("e1", "t2").
			AddRow("e2", "t1"))

	res, err := repo.TripIDsByEmployees(context.Background(), "e1", "e2")

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"e1": {"t1", "t2"}, "e2": {"t1"}}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeIDsByTrips(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE trip_id IN ($1)")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "trip_id"}).
			AddRow("e1", "t1").
			AddRow("e2", "t1"))

	res, err := repo.EmployeeIDsByTrips(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, res["t1"])
}

func TestRelations_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := newRepository(t)

	res, err := repo.EmployeeIDsByTrips(context.Background())

	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelations_QueryError(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("SELECT employee_id, trip_id FROM bookings").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.TripIDsByEmployees(context.Background(), "e1")

	assert.Error(t, err)
}
