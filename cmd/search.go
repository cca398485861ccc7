package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <qql>",
	Short: "Run a QQL query",
	Long:  `Search runs a Qase Query Language query, e.g. entity = "case" and project = "DEMO". Matches are printed as JSON.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		if limit < 0 || offset < 0 {
			return fmt.Errorf("--limit and --offset must not be negative")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		hits, err := c.Search(cmd.Context(), query, qase.ListOptions{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		if err := format.JSON(os.Stdout, hits); err != nil {
			return err
		}
		if !quiet && !jsonOut {
			fmt.Fprintf(os.Stderr, "%d match(es)\n", len(hits))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 0, "page size (default: 100)")
	searchCmd.Flags().Int("offset", 0, "start offset")
	rootCmd.AddCommand(searchCmd)
}
