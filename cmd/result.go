package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/spf13/cobra"
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Report test results",
}

var resultAddCmd = &cobra.Command{
	Use:   "add <case-id>",
	Short: "Record a result for a case in a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		raw, _ := f.GetString("status")
		status, err := model.ParseResultStatus(raw)
		if err != nil {
			return err
		}

		var runID int
		if v, _ := f.GetInt("run"); v > 0 {
			runID = v
		} else {
			runID, err = runIDArg(cmd, nil)
			if err != nil {
				return err
			}
		}

		report := qase.ResultReport{CaseID: caseID, Status: status}
		report.Comment, _ = f.GetString("comment")
		report.OSName, _ = f.GetString("os")
		report.TransMode, _ = f.GetString("trans-mode")
		report.TestParams, _ = f.GetString("test-params")
		report.DurationMS, _ = f.GetInt64("duration")

		c, err := newClient()
		if err != nil {
			return err
		}
		hash := qase.NewBestEffort(c).ReportResult(cmd.Context(), runID, report)
		if hash == "" {
			return fmt.Errorf("result for case %d in run %d was not recorded", caseID, runID)
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]string{"hash": hash})
		}
		if !quiet {
			fmt.Printf("Recorded %s for case %d in run %d (%s)\n", status, caseID, runID, hash)
		}
		return nil
	},
}

func init() {
	resultAddCmd.Flags().String("status", "", "passed, failed, blocked, skipped or invalid")
	resultAddCmd.Flags().Int("run", 0, "run id (default: the run id in qase.config.json)")
	resultAddCmd.Flags().String("dir", ".", "directory holding qase.config.json")
	resultAddCmd.Flags().String("comment", "", "result comment")
	resultAddCmd.Flags().String("os", "", "operating system, recorded as a result param")
	resultAddCmd.Flags().String("trans-mode", "", "transparency mode, recorded as a result param")
	resultAddCmd.Flags().String("test-params", "", "other test parameters, recorded as a result param")
	resultAddCmd.Flags().Int64("duration", 0, "duration in milliseconds (default: 1)")
	_ = resultAddCmd.MarkFlagRequired("status")

	resultCmd.AddCommand(resultAddCmd)
	rootCmd.AddCommand(resultCmd)
}
