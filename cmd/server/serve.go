package main

import (
	"context"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/domain/fiber/handler"
	"github.com/fadilmartias/hiring-assistant/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appConfig := config.LoadAppConfig()

	deps, err := wire(ctx)
	if err != nil {
		return err
	}

	app := newApp(appConfig, config.LoadStorageConfig())
	handler.RegisterRoutes(app, handler.Usecases{
		Catalog:    deps.catalog,
		Analysis:   deps.analysis,
		Processing: deps.processing,
	}, middleware.InferenceLimiter())

	go monitorGoroutines(ctx)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server running", zap.String("port", appConfig.Port), zap.String("env", appConfig.Env))
		errCh <- app.Listen(appConfig.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func newApp(appConfig *config.AppConfig, storageConfig *config.StorageConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		// Multipart overhead on top of the largest accepted CV.
		BodyLimit: int(storageConfig.MaxUploadSize) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return handler.ErrorResponse(c, err)
		},
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(appConfig.CORSOrigins, ","),
		AllowCredentials: true,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(*fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, time.Minute))

	return app
}

func monitorGoroutines(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			zlog.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}
