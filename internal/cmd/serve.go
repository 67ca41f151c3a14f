package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/noirtty/noirtty-server/internal/config"
	"github.com/noirtty/noirtty-server/internal/handlers"
	"github.com/noirtty/noirtty-server/internal/logger"
	"github.com/noirtty/noirtty-server/internal/middleware"
	"github.com/noirtty/noirtty-server/internal/terminal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the terminal server",
	Long: `# Serve

Starts the HTTP/WebSocket server: **GET /healthz**, **GET /config**, and
**GET /ws** for attaching to a session.

Configuration is read entirely from the environment (NOIRTTY_ADDR,
NOIRTTY_ACCESS_TOKEN, NOIRTTY_LOG_LEVEL, NOIRTTY_DEV, ...).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.Dev)

	registry := terminal.NewRegistry(cfg.DefaultMinIntervalMs)
	gate := middleware.NewAccessGate(cfg.AccessToken)

	stopReaper := startReaper(registry, cfg.ReapInterval)
	defer stopReaper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/healthz", handlers.Health)
	app.Get("/config", gate.Require, handlers.NewConfigHandler(cfg).Get)
	app.Get("/ws", handlers.NewAttachHandler(registry, gate).Handle)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Infof("listening on %s (gate enabled: %v)", cfg.Addr, cfg.GateEnabled())
	return app.Listen(cfg.Addr)
}

func startReaper(registry *terminal.Registry, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				registry.Reap()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
