package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"productsvc/internal/handlers"
	"productsvc/internal/logger"
	"productsvc/internal/middleware"
	"productsvc/internal/repositories"
	"productsvc/internal/services"
)

// ShutdownTimeout bounds how long in-flight requests get to finish.
const ShutdownTimeout = 20 * time.Second

// Dependencies is everything NewApp needs to build the HTTP service.
type Dependencies struct {
	Repo      repositories.ProductRepository
	Publisher services.EventPublisher // optional
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics // nil disables /metrics
}

// NewApp wires services, handlers and middleware into a fiber app.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               logger.AppName,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	productService := services.NewProductService(deps.Repo, deps.Publisher)
	handlers.NewProductHandler(productService).RegisterRoutes(app)

	return app
}

// Run serves app on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, app *fiber.App, addr string, l zerolog.Logger) error {
	l = l.With().Str(logger.KeyTag, "server Run").Logger()
	errGrp, ctx := errgroup.WithContext(ctx)

	errGrp.Go(func() error {
		l.Info().Str("addr", addr).Msg("server started listening")
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	errGrp.Go(func() error {
		<-ctx.Done()
		l.Info().Msg("server is gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server failed shutdown gracefully: %w", err)
		}
		return nil
	})

	if err := errGrp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	l.Info().Msg("all pending requests completed")
	return nil
}
