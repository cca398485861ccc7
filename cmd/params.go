package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/params"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Edit case parameters in bulk",
}

var paramsCopyCmd = &cobra.Command{
	Use:   "copy <source-case> <target-case> [target-case...]",
	Short: "Overwrite target case params with the source case params",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		ed, err := newEditor(cmd)
		if err != nil {
			return err
		}
		report, err := ed.Copy(cmd.Context(), ids[0], ids[1:])
		if err != nil {
			return err
		}
		return printEditReport(report)
	},
}

var paramsAddCmd = &cobra.Command{
	Use:   "add <case> [case...] --param key=v1,v2",
	Short: "Add parameter values to cases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, wanted, err := idsAndParams(cmd, args, "param")
		if err != nil {
			return err
		}
		ed, err := newEditor(cmd)
		if err != nil {
			return err
		}
		return printEditReport(ed.AddToCases(cmd.Context(), ids, wanted))
	},
}

var paramsRemoveCmd = &cobra.Command{
	Use:   "remove <case> [case...] --param key=v1,v2",
	Short: "Remove parameter values from cases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, unwanted, err := idsAndParams(cmd, args, "param")
		if err != nil {
			return err
		}
		ed, err := newEditor(cmd)
		if err != nil {
			return err
		}
		return printEditReport(ed.RemoveFromCases(cmd.Context(), ids, unwanted))
	},
}

var paramsReplaceCmd = &cobra.Command{
	Use:   "replace <case> [case...] --unwanted key=v --wanted key=v",
	Short: "Swap parameter values in cases holding any unwanted value",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, unwanted, err := idsAndParams(cmd, args, "unwanted")
		if err != nil {
			return err
		}
		pairs, _ := cmd.Flags().GetStringArray("wanted")
		wanted, err := params.Parse(pairs)
		if err != nil {
			return err
		}
		if len(wanted) == 0 {
			return fmt.Errorf("--wanted is required")
		}
		ed, err := newEditor(cmd)
		if err != nil {
			return err
		}
		return printEditReport(ed.ReplaceInCases(cmd.Context(), ids, unwanted, wanted))
	},
}

var paramsClearCmd = &cobra.Command{
	Use:   "clear <case> [case...]",
	Short: "Remove every parameter from cases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		ed, err := newEditor(cmd)
		if err != nil {
			return err
		}
		return printEditReport(ed.ClearCases(cmd.Context(), ids))
	},
}

func newEditor(cmd *cobra.Command) (*params.Editor, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	ed := params.NewEditor(c, log())
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		ed.Concurrency = n
	}
	return ed, nil
}

// idsAndParams parses case ids from args and a required params flag.
func idsAndParams(cmd *cobra.Command, args []string, flag string) ([]int, model.Params, error) {
	ids, err := parseIDs(args)
	if err != nil {
		return nil, nil, err
	}
	pairs, _ := cmd.Flags().GetStringArray(flag)
	p, err := params.Parse(pairs)
	if err != nil {
		return nil, nil, err
	}
	if len(p) == 0 {
		return nil, nil, fmt.Errorf("--%s is required", flag)
	}
	return ids, p, nil
}

func printEditReport(r params.Report) error {
	if jsonOut {
		if err := format.JSON(os.Stdout, r); err != nil {
			return err
		}
	} else if !quiet {
		format.EditReport(os.Stdout, r)
	}
	if !r.OK() {
		return fmt.Errorf("%d case(s) failed", len(r.Failed))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{paramsCopyCmd, paramsAddCmd, paramsRemoveCmd, paramsReplaceCmd, paramsClearCmd} {
		c.Flags().Int("concurrency", params.DefaultConcurrency, "cases edited in parallel")
	}
	paramsAddCmd.Flags().StringArray("param", nil, "values to add as key=v1,v2 (repeatable)")
	paramsRemoveCmd.Flags().StringArray("param", nil, "values to remove as key=v1,v2 (repeatable)")
	paramsReplaceCmd.Flags().StringArray("unwanted", nil, "values to replace as key=v1,v2 (repeatable)")
	paramsReplaceCmd.Flags().StringArray("wanted", nil, "replacement values as key=v1,v2 (repeatable)")

	paramsCmd.AddCommand(paramsCopyCmd, paramsAddCmd, paramsRemoveCmd, paramsReplaceCmd, paramsClearCmd)
	rootCmd.AddCommand(paramsCmd)
}
