package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/internal/app"
	"github.com/nfrund/mqbroker/internal/config"
	"github.com/nfrund/mqbroker/internal/logging"
)

// shutdownTimeout bounds how long a graceful stop may take.
const shutdownTimeout = 10 * time.Second

var (
	configPath string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "broker",
	Short: "Run the broker topic configuration service",
	Long: `broker keeps the authoritative table of topic configurations, persists it as a
JSON snapshot under the store root directory and registers topic changes with the
name server.

Configuration is read from a TOML file (--config), a .env file in the working
directory and BROKER_* environment variables, in that order.

Examples:
  broker --config /etc/mqbroker/broker.toml
  BROKER_AUTO_CREATE_TOPIC_ENABLE=false broker`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML configuration file")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "reload runtime settings when the configuration file changes")
	rootCmd.Version = app.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := app.New(cfg)
	if err != nil {
		return err
	}
	if err := b.Start(ctx); err != nil {
		return err
	}

	if watch && configPath != "" {
		err := config.Watch(ctx, configPath, func(next *config.BrokerConfig) {
			slog.Info("Configuration reloaded", "path", configPath)
			b.ApplyConfig(next)
		})
		if err != nil {
			slog.Warn("Configuration file is not watched", "path", configPath, "error", err)
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down broker...")
	case runErr = <-b.Errors():
		slog.Error("Broker failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := b.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return runErr
}
