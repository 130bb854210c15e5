package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"productsvc/internal/config"
	"productsvc/internal/database"
	"productsvc/internal/logger"
)

func runInitDB(c context.Context) error {
	cfg, l, err := setup("initdb")
	if err != nil {
		return err
	}
	l = l.With().Str(logger.KeyTag, "cmd runInitDB").Logger()

	if cfg.Database.Driver == config.DriverMemory {
		return fmt.Errorf("initdb needs a sql database, DATABASE_DRIVER is %q", cfg.Database.Driver)
	}

	db, err := database.Open(c, cfg.Database, l)
	if err != nil {
		l.WithLevel(zerolog.FatalLevel).Err(err).Msg("failed initializing database")
		os.Exit(ExitDatabaseUnavailable)
	}
	defer func() {
		l.Info().Msg("closing database")
		if err := database.Close(db); err != nil {
			l.Error().Err(err).Msg("failed closing database")
		}
	}()

	l.Info().Msg("products table is ready")
	return nil
}
