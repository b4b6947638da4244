package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stakeline/stakeline/internal/logging"
)

func NewSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single expiration sweep",
		Long:  "Completes every active stake whose term has ended, then exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Configure(cfg.Daemon.LogLevel, "text", os.Stderr)

			manager, cleanup, err := buildManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to build staking manager: %w", err)
			}
			defer cleanup()

			completed, err := manager.RunExpirationSweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			fmt.Printf("Completed %d expired stake(s)\n", completed)
			return nil
		},
	}
}
