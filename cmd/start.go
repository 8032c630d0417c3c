package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-registry/core/loader"
	"course-registry/core/logger"
	"course-registry/core/middleware/auth"
	"course-registry/core/middleware/headers"
	"course-registry/core/middleware/rayid"
	"course-registry/feature/admin"
	"course-registry/feature/integrity"
	"course-registry/feature/registration"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "course-registry/docs/swagger"
)

// @title Course Registry API
// @version 1.0
// @description API for course registrations and their administration.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the registration server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger and stores
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := rt.cfg.Server.Validate(); err != nil {
			logg.Fatal("Invalid server configuration", zap.Error(err))
		}

		// 2. Fiber App
		app := newApp(rt)

		// 3. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", rt.cfg.Server.Port),
				zap.Bool("admin_protected", rt.cfg.Server.AdminProtected()),
			)
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 4. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(time.Duration(rt.cfg.Server.ShutdownSeconds) * time.Second); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		// Replication writes still in flight
		rt.service.Wait()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// newApp builds the fiber app with middleware, public endpoints and features.
func newApp(rt *runtime) *fiber.App {
	logg := rt.logger

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())
	app.Use(headers.New(headers.Config{AllowOrigin: rt.cfg.Server.AllowOrigin}))
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public endpoints
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})))

	// Admin and integrity routes are guarded by the API key
	var guard fiber.Handler
	if rt.cfg.Server.AdminProtected() {
		guard = auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey})
	} else {
		logg.Warn("No API key configured, admin routes are public")
	}

	mgr := loader.NewManager(logg)
	mgr.Register(registration.NewFeature(rt.service, rt.controller))
	mgr.Register(admin.NewFeature(rt.controller, rt.coordinator, guard, logg))
	mgr.Register(integrity.NewFeature(rt.kv, rt.db, rt.engine, guard, logg))

	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}
