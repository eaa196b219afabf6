package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone_number TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		address_line TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		pin_code TEXT NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_customer_id ON addresses(customer_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone_number TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		address_line TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		pin_code TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_customer_id ON addresses(customer_id)`,
}

// Bootstrap creates any missing tables. It runs on every start and never drops
// or truncates existing rows.
func Bootstrap(ctx context.Context, conn *sql.DB, driver string) error {
	statements := sqliteSchema
	if driver == DriverPostgres {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "bootstrap schema %q", firstLine(stmt))
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var globEscaper = strings.NewReplacer(`[`, `[[]`, `*`, `[*]`, `?`, `[?]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
