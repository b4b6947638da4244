package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewStakesCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "stakes",
		Short: "List a user's stakes",
		Long:  "Prints every stake for the given user with the live reward and days remaining.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			manager, cleanup, err := buildManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to build staking manager: %w", err)
			}
			defer cleanup()

			views, err := manager.GetUserStakes(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No stakes found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tASSET\tNETWORK\tPRINCIPAL\tSTATUS\tREWARD\tDAYS LEFT")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
					v.Stake.ID, v.Stake.Asset, v.Stake.Network,
					v.Stake.Principal, v.Stake.Status, v.CurrentReward, v.DaysRemaining)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			summary, err := manager.UserSummary(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Printf("\nActive: %d/%d  Principal: %s  Accruing: %s\n",
				summary.ActiveStakes, summary.MaxActiveStakes,
				summary.TotalPrincipal, summary.TotalReward)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID to list stakes for")
	return cmd
}
