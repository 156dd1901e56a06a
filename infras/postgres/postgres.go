// Package postgres opens the read and write sqlx pools.
package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
	"vprime/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName      = "postgres"
	maxIdleConns    = 10
	maxOpenConns    = 10
	connMaxLifetime = 30 * time.Minute
	defaultSSLMode  = "disable"
)

var ErrNotConnected = errors.New("postgres connection is not established")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New connects both pools, retrying each as DB_POSTGRES_MAX_RETRY allows.
// A pool that never connects is left nil and reported by Ping.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  Connect("read", DSN(pg.Read, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
		Write: Connect("write", DSN(pg.Write, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// Ping checks both pools. It backs the readiness check.
func (c *Connection) Ping(ctx context.Context) error {
	if c == nil || c.Read == nil || c.Write == nil {
		return ErrNotConnected
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("ping write pool: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("ping read pool: %w", err)
	}

	return nil
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("pool", name).Msg("closing postgres pool")
		}
	}
}

// DSN builds a lib/pq URL for node. The prefix is prepended to the database name and
// extra query parameters are appended after sslmode.
func DSN(node config.PostgresNode, prefix string, extra url.Values) string {
	query := url.Values{}
	for key, values := range extra {
		query[key] = values
	}

	sslMode := node.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	query.Set("sslmode", sslMode)

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect opens a pool, trying at least once and at most maxRetry times.
func Connect(name, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConns)
			db.SetMaxOpenConns(maxOpenConns)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("pool", name).Msg("connected to postgres")

			return db
		}

		log.Error().Err(err).Str("pool", name).Int("attempt", attempt).Msg("connecting to postgres")

		if attempt < attempts {
			time.Sleep(time.Duration(waitSeconds) * time.Second)
		}
	}

	return nil
}
