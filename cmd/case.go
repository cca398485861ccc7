package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/params"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/spf13/cobra"
	"k8s.io/utils/ptr"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage test cases",
}

var caseGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		tc, err := c.GetCase(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, tc)
		}
		format.CaseDetail(os.Stdout, tc)
		return nil
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptions(cmd)
		if err != nil {
			return err
		}
		if suite, _ := cmd.Flags().GetInt("suite"); suite > 0 {
			opts.Filters = map[string]string{"suite_id": strconv.Itoa(suite)}
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		cases, err := c.ListCases(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, cases)
		}
		format.CaseTable(os.Stdout, cases)
		return nil
	},
}

var caseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			return fmt.Errorf("--title is required")
		}
		payload := qase.CaseCreate{Title: title}
		payload.Description, _ = cmd.Flags().GetString("description")
		payload.Preconditions, _ = cmd.Flags().GetString("preconditions")
		payload.Postconditions, _ = cmd.Flags().GetString("postconditions")
		payload.Priority, _ = cmd.Flags().GetInt("priority")
		payload.Severity, _ = cmd.Flags().GetInt("severity")
		payload.Tags, _ = cmd.Flags().GetStringSlice("tag")
		if v, _ := cmd.Flags().GetInt("suite"); v > 0 {
			payload.SuiteID = ptr.To(v)
		}
		if v, _ := cmd.Flags().GetInt("milestone"); v > 0 {
			payload.MilestoneID = ptr.To(v)
		}
		pairs, _ := cmd.Flags().GetStringArray("param")
		p, err := params.Parse(pairs)
		if err != nil {
			return err
		}
		if len(p) > 0 {
			payload.Params = p
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		id, err := c.CreateCase(cmd.Context(), payload)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]int{"id": id})
		}
		if !quiet {
			fmt.Printf("Created case %d: %s\n", id, title)
		} else {
			fmt.Println(id)
		}
		return nil
	},
}

var caseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the fields given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		payload, changed, err := caseUpdateFromFlags(cmd)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if _, err := c.UpdateCase(cmd.Context(), id, payload); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Updated case %d\n", id)
		}
		return nil
	},
}

// caseUpdateFromFlags builds an update from the flags that were set.
func caseUpdateFromFlags(cmd *cobra.Command) (qase.CaseUpdate, bool, error) {
	var u qase.CaseUpdate
	f := cmd.Flags()
	changed := false
	if f.Changed("title") {
		u.Title, _ = f.GetString("title")
		changed = true
	}
	if f.Changed("description") {
		u.Description, _ = f.GetString("description")
		changed = true
	}
	if f.Changed("preconditions") {
		u.Preconditions, _ = f.GetString("preconditions")
		changed = true
	}
	if f.Changed("postconditions") {
		u.Postconditions, _ = f.GetString("postconditions")
		changed = true
	}
	if f.Changed("priority") {
		u.Priority, _ = f.GetInt("priority")
		changed = true
	}
	if f.Changed("severity") {
		u.Severity, _ = f.GetInt("severity")
		changed = true
	}
	if f.Changed("tag") {
		u.Tags, _ = f.GetStringSlice("tag")
		changed = true
	}
	if f.Changed("suite") {
		v, _ := f.GetInt("suite")
		if v <= 0 {
			return u, false, fmt.Errorf("--suite must be a positive id")
		}
		u.SuiteID = ptr.To(v)
		changed = true
	}
	if f.Changed("milestone") {
		v, _ := f.GetInt("milestone")
		if v <= 0 {
			return u, false, fmt.Errorf("--milestone must be a positive id")
		}
		u.MilestoneID = ptr.To(v)
		changed = true
	}
	if f.Changed("param") {
		pairs, _ := f.GetStringArray("param")
		p, err := params.Parse(pairs)
		if err != nil {
			return u, false, err
		}
		u.Params = &p
		changed = true
	}
	return u, changed, nil
}

var caseDeleteCmd = &cobra.Command{
	Use:   "delete <id> [id...]",
	Short: "Delete cases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		failed := 0
		for _, id := range ids {
			if _, err := c.DeleteCase(cmd.Context(), id); err != nil {
				errorf("%v", err)
				failed++
				continue
			}
			if !quiet {
				fmt.Printf("Deleted case %d\n", id)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d case(s) not deleted", failed, len(ids))
		}
		return nil
	},
}

var caseMoveCmd = &cobra.Command{
	Use:   "move <suite-id> <case-id> [case-id...]",
	Short: "Move cases into a suite",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := parseID(args[0])
		if err != nil {
			return err
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		failed := 0
		for _, id := range ids {
			if _, err := c.UpdateCase(cmd.Context(), id, qase.CaseUpdate{SuiteID: ptr.To(suite)}); err != nil {
				errorf("%v", err)
				failed++
				continue
			}
			if !quiet {
				fmt.Printf("Moved case %d to suite %d\n", id, suite)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d case(s) not moved", failed, len(ids))
		}
		return nil
	},
}

// listOptions reads the shared pagination flags.
func listOptions(cmd *cobra.Command) (qase.ListOptions, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	search, _ := cmd.Flags().GetString("search")
	if limit < 0 || offset < 0 {
		return qase.ListOptions{}, fmt.Errorf("--limit and --offset must not be negative")
	}
	return qase.ListOptions{Limit: limit, Offset: offset, Search: search}, nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "page size (default: 100)")
	cmd.Flags().Int("offset", 0, "start offset")
	cmd.Flags().String("search", "", "title substring filter")
}

func addCaseFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "case title")
	cmd.Flags().String("description", "", "description (markdown)")
	cmd.Flags().String("preconditions", "", "preconditions (markdown)")
	cmd.Flags().String("postconditions", "", "postconditions (markdown)")
	cmd.Flags().Int("priority", 0, "priority: 1 high, 2 medium, 3 low")
	cmd.Flags().Int("severity", 0, "severity: 1 blocker ... 6 trivial")
	cmd.Flags().Int("suite", 0, "suite id")
	cmd.Flags().Int("milestone", 0, "milestone id")
	cmd.Flags().StringSlice("tag", nil, "tags (repeatable or comma-separated)")
	cmd.Flags().StringArray("param", nil, "parameter as key=v1,v2 (repeatable)")
}

func init() {
	addListFlags(caseListCmd)
	caseListCmd.Flags().Int("suite", 0, "only cases in this suite")
	addCaseFieldFlags(caseCreateCmd)
	addCaseFieldFlags(caseUpdateCmd)

	caseCmd.AddCommand(caseGetCmd, caseListCmd, caseCreateCmd, caseUpdateCmd, caseDeleteCmd, caseMoveCmd)
	rootCmd.AddCommand(caseCmd)
}
