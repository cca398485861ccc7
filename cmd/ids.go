package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/testindex"
	"github.com/spf13/cobra"
)

var idsCmd = &cobra.Command{
	Use:   "ids [dir]",
	Short: "List the Qase ids tagged on pytest tests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		dups, _ := cmd.Flags().GetBool("dups")
		files, err := testindex.Scan(dir)
		if err != nil {
			return err
		}

		if dups {
			d := testindex.Duplicates(files)
			if jsonOut {
				return format.JSON(os.Stdout, d)
			}
			format.Duplicates(os.Stdout, d)
			if len(d) > 0 {
				return fmt.Errorf("%d qase id(s) used by more than one test", len(d))
			}
			return nil
		}

		if jsonOut {
			return format.JSON(os.Stdout, files)
		}
		if verbose {
			format.IndexTable(os.Stdout, files)
			return nil
		}
		for _, id := range testindex.IDs(files) {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	idsCmd.Flags().Bool("dups", false, "report ids claimed by more than one test")
	rootCmd.AddCommand(idsCmd)
}
