// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/unclebandit/customer-api/internal/config"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	pingTimeout = 10 * time.Second
)

// ErrUnavailable is returned by every operation on a handle that failed to open.
var ErrUnavailable = errors.New("database unavailable")

// sqlite pragmas are applied by the driver to every pooled connection.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store owns the connection pool and knows which SQL dialect it speaks.
type Store struct {
	db     *sql.DB
	driver string
	err    error
}

// Open connects to the configured store and bootstraps the schema. It never
// returns nil: on failure the error is logged and the returned handle rejects
// every later call with ErrUnavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) *Store {
	s := &Store{driver: cfg.Driver}

	conn, err := open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Msg("failed to open database")
		s.err = err
		return s
	}

	if err := Bootstrap(ctx, conn, cfg.Driver); err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Msg("failed to bootstrap schema")
		_ = conn.Close()
		s.err = err
		return s
	}

	s.db = conn
	return s
}

func open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*sql.DB, error) {
	var dsn string
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite: empty path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
		if _, err := os.Stat(cfg.Path); err == nil {
			logger.Info().Str("path", cfg.Path).Msg("using existing sqlite database (preserving data)")
		} else {
			logger.Info().Str("path", cfg.Path).Msg("creating new sqlite database")
		}
		dsn = "file:" + cfg.Path + "?" + sqlitePragmas
	case DriverPostgres:
		dsn = cfg.DSN
	default:
		return nil, errors.Errorf("unsupported driver %q", cfg.Driver)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	conn.SetMaxIdleConns(cfg.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping")
	}

	logger.Info().Str("driver", cfg.Driver).Msg("connected to database")
	return conn, nil
}

// unavailableError matches ErrUnavailable and carries the reason the open failed.
type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}

// Conn returns the pool, or ErrUnavailable when the handle failed to open.
func (s *Store) Conn() (*sql.DB, error) {
	if s == nil || s.db == nil {
		cause := errors.New("not opened")
		if s != nil && s.err != nil {
			cause = s.err
		}
		return nil, &unavailableError{cause: cause}
	}
	return s.db, nil
}

// Driver reports the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Builder returns a statement builder using the dialect's placeholder format.
func (s *Store) Builder() sq.StatementBuilderType {
	if s.driver == DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Contains returns a case-sensitive substring predicate on column.
func (s *Store) Contains(column, value string) sq.Sqlizer {
	if s.driver == DriverPostgres {
		return sq.Expr(column+` LIKE ? ESCAPE '\'`, "%"+escapeLike(value)+"%")
	}
	// sqlite LIKE ignores ASCII case; GLOB does not.
	return sq.Expr(column+" GLOB ?", "*"+escapeGlob(value)+"*")
}

// Ready pings the store.
func (s *Store) Ready(ctx context.Context) error {
	conn, err := s.Conn()
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
