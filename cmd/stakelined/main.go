package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stakeline/stakeline/cmd/stakelined/commands"
)

var rootCmd = &cobra.Command{
	Use:   "stakelined",
	Short: "Stakeline staking lifecycle daemon",
	Long:  "Manages user stakes: creation, reward accrual, early withdrawal and expiration",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "Path to config file (default: ~/.stakeline/config.yaml)")
}

func main() {
	rootCmd.AddCommand(commands.NewRunCmd())
	rootCmd.AddCommand(commands.NewSweepCmd())
	rootCmd.AddCommand(commands.NewPeriodsCmd())
	rootCmd.AddCommand(commands.NewStakesCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())
	rootCmd.AddCommand(commands.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
