// cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/config"
	"github.com/unclebandit/customer-api/internal/db"
	"github.com/unclebandit/customer-api/internal/logger"
)

var seedFiles = []string{
	"seed/customers.sql",
	"seed/addresses.sql",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not load config")
	}

	log, err := logger.New(cfg.Log, "customer-seeder")
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not build logger")
	}

	ctx := context.Background()

	store := db.Open(ctx, cfg.Database, log)
	defer store.Close()

	conn, err := store.Conn()
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}

	if err := seed(ctx, conn, seedFiles, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	log.Info().Msg("database seeding completed successfully")
}

// seed executes each file in order as one multi-statement script.
func seed(ctx context.Context, conn *sql.DB, files []string, log zerolog.Logger) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "read seed file %s", file)
		}

		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return errors.Wrapf(err, "execute seed file %s", file)
		}
		log.Info().Str("file", file).Msg("seeded")
	}
	return nil
}
