package cmd

import (
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect test plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List test plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptions(cmd)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		plans, err := c.ListPlans(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, plans)
		}
		format.PlanTable(os.Stdout, plans)
		return nil
	},
}

func init() {
	addListFlags(planListCmd)
	planCmd.AddCommand(planListCmd)
	rootCmd.AddCommand(planCmd)
}
