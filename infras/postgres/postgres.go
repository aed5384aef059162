package postgres

//go:generate go run go.uber.org/mock/mockgen -source=./postgres.go -destination=./mocks/postgres_mock.go -package=mocks

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"etm/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName        = "postgres"
	maxIdleConns      = 10
	maxOpenConns      = 10
	connMaxLifetime   = 30 * time.Minute
	roleRead          = "read"
	roleWrite         = "write"
	paramSSLMode      = "sslmode"
	paramTimezone     = "timezone"
	defaultSSLMode    = "disable"
	connectionsFailed = "Exhausted database connection retries"
)

// Transactor runs a unit of work inside a single write transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// Connection holds one pool for reads and one for writes. Both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect(roleRead, DSN(pg.Read, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(roleWrite, DSN(pg.Write, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// NewTransactor exposes the write connection as a Transactor.
func NewTransactor(conn *Connection) Transactor {
	return conn
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping checks the write pool first, then the read pool.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

// Close releases both pools.
func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connection")
		}
	}
}

// DSN builds a postgres:// URL for db. prefix is prepended to the database name
// and params are added to the query string next to sslmode and timezone.
func DSN(db config.Database, prefix string, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}

	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	query.Set(paramSSLMode, sslMode)

	if db.Timezone != "" {
		query.Set(paramTimezone, db.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(db.Username, db.Password),
		Host:     net.JoinHostPort(db.Host, db.Port),
		Path:     "/" + prefix + db.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries every waitSeconds and exits the process once maxRetry attempts failed.
func connect(role, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().Str("role", role).Logger()

	for attempt := 1; attempt <= maxRetry; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConns)
			db.SetMaxOpenConns(maxOpenConns)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Msg(connectionsFailed)

	return nil
}
