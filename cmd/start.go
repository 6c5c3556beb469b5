package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"event-sync/core/config"
	"event-sync/core/loader"
	"event-sync/core/logger"
	"event-sync/core/middleware/auth"
	"event-sync/core/middleware/rayid"
	"event-sync/core/middleware/requestlog"
	"event-sync/feature/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "event-sync/docs/swagger"
)

// @title Event Sync API
// @version 1.0
// @description Local event counts and their propagation to a delayed, unreliable remote store.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the event-sync server",
	Long:  `Starts the HTTP server. Occurrences are emitted through POST /events/:name and counts are read from /stats.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// newServer builds the Fiber app with middleware and features.
func newServer(a *app) (*fiber.App, error) {
	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID must be first to trace everything
	srv.Use(rayid.New())
	srv.Use(requestlog.New(a.logger))

	// Swagger stays public
	srv.Get("/swagger/*", swagger.HandlerDefault)

	srv.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	mgr := loader.NewManager(a.logger)
	mgr.Register(stats.NewFeature(a.bus, a.sync, a.observer, a.logger))
	if err := mgr.LoadAll(srv); err != nil {
		return nil, err
	}
	return srv, nil
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if !cfg.Remote.IsValidBackend() {
		return fmt.Errorf("unsupported remote backend: %s", cfg.Remote.Backend)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := newServer(a)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.Bool("auth", cfg.Server.AuthEnabled()))
		errCh <- srv.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	if err := srv.ShutdownWithTimeout(timeout); err != nil {
		logg.Warn("Server shutdown incomplete", zap.Error(err))
	}

	// Let in-flight propagation finish before Close cancels it
	waitCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.sync.Wait(waitCtx); err != nil {
		logg.Warn("Propagation still pending at shutdown", zap.Error(err))
	}
	return nil
}
