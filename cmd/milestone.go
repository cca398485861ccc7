package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/spf13/cobra"
)

var milestoneCmd = &cobra.Command{
	Use:   "milestone",
	Short: "Manage milestones",
}

var milestoneIDCmd = &cobra.Command{
	Use:   "id <title>",
	Short: "Print the id of the milestone with this exact title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		create, _ := cmd.Flags().GetBool("create")
		c, err := newClient()
		if err != nil {
			return err
		}
		id, err := c.GetMilestoneID(cmd.Context(), args[0], create)
		if err != nil {
			return err
		}
		if id == 0 {
			return fmt.Errorf("milestone %q not found", args[0])
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]int{"id": id})
		}
		fmt.Println(id)
		return nil
	},
}

var milestoneCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a milestone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := qase.MilestoneCreate{Title: args[0]}
		payload.Description, _ = cmd.Flags().GetString("description")
		payload.Status, _ = cmd.Flags().GetString("status")
		payload.DueDate, _ = cmd.Flags().GetInt64("due")
		c, err := newClient()
		if err != nil {
			return err
		}
		id, err := c.CreateMilestone(cmd.Context(), payload)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]int{"id": id})
		}
		if !quiet {
			fmt.Printf("Created milestone %d: %s\n", id, payload.Title)
		} else {
			fmt.Println(id)
		}
		return nil
	},
}

var milestoneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List milestones",
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
		ms, err := c.ListMilestones(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, ms)
		}
		format.MilestoneTable(os.Stdout, ms)
		return nil
	},
}

func init() {
	milestoneIDCmd.Flags().Bool("create", false, "create the milestone when missing")
	milestoneCreateCmd.Flags().String("description", "", "milestone description")
	milestoneCreateCmd.Flags().String("status", "", "active, completed or not_started")
	milestoneCreateCmd.Flags().Int64("due", 0, "due date as a unix timestamp")
	addListFlags(milestoneListCmd)

	milestoneCmd.AddCommand(milestoneIDCmd, milestoneCreateCmd, milestoneListCmd)
	rootCmd.AddCommand(milestoneCmd)
}
