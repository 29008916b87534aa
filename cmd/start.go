package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spellbook/core/loader"
	"spellbook/core/logger"
	"spellbook/core/middleware/auth"
	"spellbook/core/middleware/rayid"
	"spellbook/core/scheduler"
	"spellbook/feature/integrity"
	"spellbook/feature/spellcount"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "spellbook/docs/swagger"
)

// @title Spellbook API
// @version 1.0
// @description API for roles, spells and the num_spells counter.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the spellbook server",
	Long:  `Starts the HTTP server, initializes all enabled features and the scheduled num_spells sweep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := a.storageClient(ctx)
		if err != nil {
			// Exports are optional; the rest of the API still works.
			logg.Warn("Report storage unavailable", zap.Error(err))
			client = nil
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		counts := spellcount.NewFeature(a.store, logg)

		mgr := loader.NewManager()
		mgr.Register(counts)
		mgr.Register(integrity.NewFeature(a.db, a.store, client, a.cfg.Storage, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

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

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		if expr := a.cfg.Sweep.Schedule; expr != "" {
			sched, err := scheduler.New(expr, func(ctx context.Context) error {
				_, err := counts.Service().RecomputeAll(ctx)
				return err
			}, logg)
			if err != nil {
				return err
			}
			go func() {
				if err := sched.Run(ctx); err != nil {
					logg.Error("Sweep scheduler stopped", zap.Error(err))
				}
			}()
			logg.Info("Scheduled num_spells sweep", zap.String("schedule", expr))
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- app.Listen(a.cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
