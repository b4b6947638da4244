package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewPeriodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "Show the staking period table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tMONTHS\tDAYS\tANNUAL RATE")
			for _, p := range cfg.StakingPeriods() {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s%%\n", p.Key, p.Months, p.Days, p.AnnualRatePercent)
			}
			return w.Flush()
		},
	}
}
