package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // registers the "postgres" driver
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
	"github.com/rs/zerolog/log"
)

// Supported drivers
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DBConfig holds everything needed to open the author database.
type DBConfig struct {
	Driver string

	// Postgres connection
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string

	// SQLite database file, or any DSN mattn/go-sqlite3 accepts
	SQLitePath string

	// Pool
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Retry
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

// DB wraps the sqlx handle and its configuration.
type DB struct {
	Conn   *sqlx.DB
	Config *DBConfig
}

// NewDB creates an unconnected DB; call Connect before use.
func NewDB(config *DBConfig) *DB {
	return &DB{Config: config}
}

// dsn builds the data source name for the configured driver
func (db *DB) dsn() (string, error) {
	c := db.Config
	switch c.Driver {
	case DriverPgx, DriverPostgres:
		q := url.Values{}
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		if c.ConnectTimeout > 0 {
			q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.Username, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.DBName,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return "", fmt.Errorf("sqlite path is empty")
		}
		return c.SQLitePath, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", c.Driver)
}

func (db *DB) configurePool(conn *sqlx.DB) {
	if db.Config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(db.Config.MaxOpenConns)
	}
	if db.Config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(db.Config.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(db.Config.MaxConnLifetime)
	conn.SetConnMaxIdleTime(db.Config.MaxConnIdleTime)
}

// connectWithRetry opens and pings the database, backing off exponentially
// between attempts: delay = RetryDelay * 2^(attempt-1).
func (db *DB) connectWithRetry(ctx context.Context, dsn string) (*sqlx.DB, error) {
	attempts := db.Config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		log.Debug().
			Str("driver", db.Config.Driver).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("connecting to database")

		connectCtx, cancel := context.WithTimeout(ctx, db.timeout())
		conn, err := sqlx.ConnectContext(connectCtx, db.Config.Driver, dsn)
		cancel()

		if err == nil {
			log.Info().Int("attempt", attempt).Msg("database connection established")
			return conn, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("database connection attempt failed")

		if attempt < attempts {
			delay := db.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, lastErr)
}

func (db *DB) timeout() time.Duration {
	if db.Config.ConnectTimeout > 0 {
		return db.Config.ConnectTimeout
	}
	return 10 * time.Second
}

// Connect opens the connection pool: build DSN, connect with retry,
// configure the pool.
func (db *DB) Connect(ctx context.Context) error {
	dsn, err := db.dsn()
	if err != nil {
		return fmt.Errorf("database configuration failed: %w", err)
	}

	conn, err := db.connectWithRetry(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	db.configurePool(conn)

	db.Conn = conn
	return nil
}
