package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/spf13/cobra"
	"k8s.io/utils/ptr"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage test runs",
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptions(cmd)
		if err != nil {
			return err
		}
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			opts.Filters = map[string]string{"status": status}
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		runs, err := c.ListRuns(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, runs)
		}
		format.RunTable(os.Stdout, runs)
		return nil
	},
}

var runGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a run (default: the run id in qase.config.json)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := runIDArg(cmd, args)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		r, err := c.GetRun(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, r)
		}
		format.RunDetail(os.Stdout, r)
		return nil
	},
}

var runCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		payload := qase.RunCreate{Title: args[0]}
		payload.Description, _ = f.GetString("description")
		payload.IncludeAllCases, _ = f.GetBool("all-cases")
		payload.Cases, _ = f.GetIntSlice("case")
		payload.Tags, _ = f.GetStringSlice("tag")
		if f.Changed("autotest") {
			v, _ := f.GetBool("autotest")
			payload.IsAutotest = ptr.To(v)
		}
		if v, _ := f.GetInt("environment"); v > 0 {
			payload.EnvironmentID = ptr.To(v)
		}
		if v, _ := f.GetInt("plan"); v > 0 {
			payload.PlanID = ptr.To(v)
		}
		fields, _ := f.GetStringArray("custom-field")
		custom, err := parseCustomFields(fields)
		if err != nil {
			return err
		}
		payload.CustomField = custom

		c, err := newClient()
		if err != nil {
			return err
		}
		if title, _ := f.GetString("milestone"); title != "" {
			create, _ := f.GetBool("create-milestone")
			id, err := c.GetMilestoneID(cmd.Context(), title, create)
			if err != nil {
				return err
			}
			if id == 0 {
				return fmt.Errorf("milestone %q not found (use --create-milestone)", title)
			}
			payload.MilestoneID = ptr.To(id)
		}
		id, err := c.CreateRun(cmd.Context(), payload)
		if err != nil {
			return err
		}

		if save, _ := f.GetBool("save"); save {
			dir, _ := f.GetString("dir")
			s, err := openStore(dir)
			if err != nil {
				return err
			}
			if err := s.SetRunID(id); err != nil {
				return err
			}
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]int{"id": id})
		}
		if !quiet {
			fmt.Printf("Created run %d: %s\n", id, payload.Title)
		} else {
			fmt.Println(id)
		}
		return nil
	},
}

var runCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Complete a run (default: the run id in qase.config.json)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := runIDArg(cmd, args)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.CompleteRun(cmd.Context(), id); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Completed run %d\n", id)
		}
		return nil
	},
}

// runIDArg returns the id argument, or the run id in the config file.
func runIDArg(cmd *cobra.Command, args []string) (int, error) {
	if len(args) == 1 {
		return parseID(args[0])
	}
	dir, _ := cmd.Flags().GetString("dir")
	s, err := openStore(dir)
	if err != nil {
		return 0, err
	}
	id := s.RunID()
	if id == 0 {
		return 0, fmt.Errorf("no run id given and none set in %s", s.Path())
	}
	return id, nil
}

// parseCustomFields reads "field-id=value" pairs.
func parseCustomFields(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid custom field %q: expected id=value", pair)
		}
		if _, err := parseID(k); err != nil {
			return nil, fmt.Errorf("invalid custom field %q: %w", pair, err)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func init() {
	addListFlags(runListCmd)
	runListCmd.Flags().String("status", "", "filter: active, complete or abort")

	runCreateCmd.Flags().String("description", "", "run description")
	runCreateCmd.Flags().Bool("all-cases", false, "include every case in the project")
	runCreateCmd.Flags().IntSlice("case", nil, "case ids to include")
	runCreateCmd.Flags().StringSlice("tag", nil, "run tags")
	runCreateCmd.Flags().Bool("autotest", true, "mark the run as automated")
	runCreateCmd.Flags().Int("environment", 0, "environment id")
	runCreateCmd.Flags().Int("plan", 0, "test plan id")
	runCreateCmd.Flags().String("milestone", "", "milestone title")
	runCreateCmd.Flags().Bool("create-milestone", false, "create the milestone when missing")
	runCreateCmd.Flags().StringArray("custom-field", nil, "custom field as id=value (repeatable)")
	runCreateCmd.Flags().Bool("save", false, "write the new run id to qase.config.json")

	for _, c := range []*cobra.Command{runGetCmd, runCreateCmd, runCompleteCmd} {
		c.Flags().String("dir", ".", "directory holding qase.config.json")
	}

	runCmd.AddCommand(runListCmd, runGetCmd, runCreateCmd, runCompleteCmd)
	rootCmd.AddCommand(runCmd)
}
