package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"tasktrack/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

var ErrConnectionExhausted = errors.New("exhausted retries connecting to database")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools. The returned cleanup closes both.
func New(config *config.Config) (*Connection, func(), error) {
	read, err := CreatePostgresReadConn(*config)
	if err != nil {
		return nil, nil, err
	}

	write, err := CreatePostgresWriteConn(*config)
	if err != nil {
		_ = read.Close()

		return nil, nil, err
	}

	conn := &Connection{
		Read:  read,
		Write: write,
	}

	return conn, conn.Close, nil
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	return nil
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("name", name).Msg("Failed to close database connection")
		}
	}
}

// getDBName returns the database name with prefix if configured
func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"write",
		DSN(config.DB.Postgres.Write.Username,
			config.DB.Postgres.Write.Password,
			config.DB.Postgres.Write.Host,
			config.DB.Postgres.Write.Port,
			getDBName(config, config.DB.Postgres.Write.Name),
			config.DB.Postgres.Write.SSLMode,
			config.DB.Postgres.Write.Timezone,
		),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"read",
		DSN(config.DB.Postgres.Read.Username,
			config.DB.Postgres.Read.Password,
			config.DB.Postgres.Read.Host,
			config.DB.Postgres.Read.Port,
			getDBName(config, config.DB.Postgres.Read.Name),
			config.DB.Postgres.Read.SSLMode,
			config.DB.Postgres.Read.Timezone,
		),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// DSN builds a lib/pq connection URL. Empty sslMode and timezone are omitted.
func DSN(username, password, host, port, dbName, sslMode, timezone string) string {
	query := url.Values{}
	if sslMode != "" {
		query.Set("sslmode", sslMode)
	}

	if timezone != "" {
		query.Set("timezone", timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     dbName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// CreatePostgresConnection connects with up to maxRetry attempts, waiting waitTime seconds between them.
func CreatePostgresConnection(name, descriptor string, maxRetry, waitTime int) (*sqlx.DB, error) {
	var lastErr error

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.Info().Str("name", name).Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil, fmt.Errorf("%w (%s): %w", ErrConnectionExhausted, name, lastErr)
}
