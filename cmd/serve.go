package cmd

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"productsvc/internal/config"
	"productsvc/internal/database"
	"productsvc/internal/logger"
	"productsvc/internal/middleware"
	"productsvc/internal/repositories"
	"productsvc/internal/server"
	"productsvc/pkg/rabbitmq"
)

func runServe(c context.Context) error {
	cfg, l, err := setup("serve")
	if err != nil {
		return err
	}
	l = l.With().Str(logger.KeyTag, "cmd runServe").Logger()
	c = l.WithContext(c)

	deps := server.Dependencies{Logger: l}

	var db *gorm.DB
	if cfg.Database.Driver == config.DriverMemory {
		l.Warn().Msg("using in-memory product repository, data is lost on exit")
		deps.Repo = repositories.NewMemoryProductRepository()
	} else {
		db, err = database.Open(c, cfg.Database, l)
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
		deps.Repo = repositories.NewGORMProductRepository(db)
	}

	if cfg.App.MetricsEnabled {
		deps.Metrics = middleware.NewMetrics()
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				deps.Metrics.Registry().MustRegister(collectors.NewDBStatsCollector(sqlDB, "products"))
			}
		}
	}

	if cfg.RabbitMQ.Enabled() {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, l)
		if err != nil {
			l.Warn().Err(err).Msg("product events disabled")
		} else {
			defer func() {
				l.Info().Msg("closing RabbitMQ client")
				if err := mq.Close(); err != nil {
					l.Error().Err(err).Msg("failed closing RabbitMQ client")
				}
			}()
			deps.Publisher = mq
		}
	}

	app := server.NewApp(deps)
	return server.Run(c, app, cfg.App.Port, l)
}
