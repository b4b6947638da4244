package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stakeline/stakeline/internal/logging"
	"github.com/stakeline/stakeline/internal/metrics"
	"github.com/stakeline/stakeline/internal/staking"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the staking daemon",
		Long:  "Starts the expiration sweeper and the metrics endpoint, then blocks until SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Configure(cfg.Daemon.LogLevel, cfg.Daemon.LogFormat, os.Stderr)

			registry := metrics.NewRegistry()
			manager, cleanup, err := buildManager(cfg,
				staking.WithNotifier(staking.LogNotifier{}),
				staking.WithMetrics(registry),
			)
			if err != nil {
				return fmt.Errorf("failed to build staking manager: %w", err)
			}
			defer cleanup()

			sweeper := staking.NewSweeper(manager, time.Duration(cfg.Staking.SweepIntervalSecs)*time.Second)
			sweeper.Start()
			defer sweeper.Stop()

			var metricsServer *http.Server
			if cfg.Metrics.Enabled {
				mux := http.NewServeMux()
				mux.Handle("/metrics", registry.Handler())
				metricsServer = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
				go func() {
					if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logging.Error("metrics server failed", logging.Err(err))
					}
				}()
				logging.Info("metrics endpoint listening", "addr", cfg.Metrics.ListenAddr)
			}

			logging.Info("stakeline daemon started",
				"store", cfg.StoreFile(),
				"sweep_interval_secs", cfg.Staking.SweepIntervalSecs,
				"networks", len(cfg.Networks))

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			logging.Info("shutting down")
			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					logging.Error("metrics server shutdown failed", logging.Err(err))
				}
			}
			return nil
		},
	}
}
