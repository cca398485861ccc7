package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/graph"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/RamXX/qaseio/internal/suitesync"
	"github.com/RamXX/qaseio/internal/testindex"
	"github.com/RamXX/qaseio/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/utils/ptr"
)

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Manage suites and sync pytest files into them",
}

var suiteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suites",
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
		suites, err := c.ListSuites(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, suites)
		}
		format.SuiteTable(os.Stdout, suites)
		return nil
	},
}

var suiteCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a suite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := qase.SuiteCreate{Title: args[0]}
		payload.Description, _ = cmd.Flags().GetString("description")
		payload.Preconditions, _ = cmd.Flags().GetString("preconditions")
		if parent, _ := cmd.Flags().GetInt("parent"); parent > 0 {
			payload.ParentID = ptr.To(parent)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		id, err := c.CreateSuite(cmd.Context(), payload)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, map[string]int{"id": id})
		}
		if !quiet {
			fmt.Printf("Created suite %d: %s\n", id, payload.Title)
		} else {
			fmt.Println(id)
		}
		return nil
	},
}

var suiteUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the fields given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var payload qase.SuiteUpdate
		f := cmd.Flags()
		changed := false
		if f.Changed("title") {
			payload.Title, _ = f.GetString("title")
			changed = true
		}
		if f.Changed("description") {
			payload.Description, _ = f.GetString("description")
			changed = true
		}
		if f.Changed("preconditions") {
			payload.Preconditions, _ = f.GetString("preconditions")
			changed = true
		}
		if f.Changed("parent") {
			parent, _ := f.GetInt("parent")
			if parent <= 0 {
				return fmt.Errorf("--parent must be a positive id")
			}
			payload.ParentID = ptr.To(parent)
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if _, err := c.UpdateSuite(cmd.Context(), id, payload); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Updated suite %d\n", id)
		}
		return nil
	},
}

var suiteTreeCmd = &cobra.Command{
	Use:   "tree [id]",
	Short: "Show the suite hierarchy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := 0
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			root = id
		}
		showStats, _ := cmd.Flags().GetBool("stats")

		c, err := newClient()
		if err != nil {
			return err
		}
		suites, err := c.ListSuites(cmd.Context(), qase.ListOptions{})
		if err != nil {
			return err
		}
		g := graph.Build(suites, nil)
		for _, cycle := range g.DetectCycles() {
			log().Warn("suite parent cycle", zap.Ints("suites", cycle))
		}

		forest := g.Forest()
		if root != 0 {
			node := g.Tree(root)
			if node == nil {
				return fmt.Errorf("suite %d not found", root)
			}
			forest = []*graph.SuiteNode{node}
		}

		if jsonOut {
			if showStats {
				return format.JSON(os.Stdout, g.Stats())
			}
			return format.JSON(os.Stdout, forest)
		}
		format.SuiteTree(os.Stdout, forest)
		if showStats {
			st := g.Stats()
			fmt.Println()
			fmt.Printf("Suites: %d | Roots: %d | Leaves: %d | Orphans: %d | Max depth: %d | Empty: %d\n",
				st.Suites, st.Roots, st.Leaves, st.Orphans, st.MaxDepth, st.Empty)
		}
		return nil
	},
}

var suiteSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "File pytest cases under parent and leaf suites named after their test files",
	Long: `Sync resolves every test file's suite name ("test_client_auth.py" becomes
"Client Auth") to a parent suite ("Client") and a leaf suite ("Client Auth"),
creating missing suites. Cases tagged with @qase.id(N) in the wrong suite are
reported, or moved with --move.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := syncFiles(cmd)
		if err != nil {
			return err
		}
		opts := suitesync.Options{}
		opts.MoveCases, _ = cmd.Flags().GetBool("move")
		opts.RootParentSuite, _ = cmd.Flags().GetInt("root-parent")
		opts.AssertParentSuite, _ = cmd.Flags().GetBool("assert-parent")
		if known, _ := cmd.Flags().GetString("known"); known != "" {
			opts.KnownSuites, err = suitesync.LoadKnownSuites(known)
			if err != nil {
				return err
			}
		}
		if opts.AssertParentSuite && len(opts.KnownSuites) == 0 {
			return fmt.Errorf("--assert-parent needs --known")
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := suitesync.New(c, log()).Run(cmd.Context(), files, opts)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, res)
		}
		if !quiet {
			var buf bytes.Buffer
			format.SyncSummary(&buf, res)
			fmt.Print(ui.RenderMarkdown(buf.String()))
		}
		return nil
	},
}

// syncFiles reads the test index from --index, or scans --dir.
func syncFiles(cmd *cobra.Command) ([]testindex.File, error) {
	if index, _ := cmd.Flags().GetString("index"); index != "" {
		return testindex.Load(index)
	}
	dir, _ := cmd.Flags().GetString("dir")
	return testindex.Scan(dir)
}

func init() {
	addListFlags(suiteListCmd)
	for _, c := range []*cobra.Command{suiteCreateCmd, suiteUpdateCmd} {
		c.Flags().String("description", "", "description (markdown)")
		c.Flags().String("preconditions", "", "preconditions (markdown)")
		c.Flags().Int("parent", 0, "parent suite id")
	}
	suiteUpdateCmd.Flags().String("title", "", "suite title")
	suiteTreeCmd.Flags().Bool("stats", false, "print hierarchy statistics")

	suiteSyncCmd.Flags().String("dir", ".", "directory scanned for test_*.py files")
	suiteSyncCmd.Flags().String("index", "", "YAML or JSON test index used instead of scanning")
	suiteSyncCmd.Flags().Bool("move", false, "move misplaced cases instead of reporting them")
	suiteSyncCmd.Flags().Int("root-parent", 0, "suite id new parent suites are created under")
	suiteSyncCmd.Flags().String("known", "", "YAML map of suite name to id")
	suiteSyncCmd.Flags().Bool("assert-parent", false, "fail when a parent suite is not in --known")

	suiteCmd.AddCommand(suiteListCmd, suiteCreateCmd, suiteUpdateCmd, suiteTreeCmd, suiteSyncCmd)
	rootCmd.AddCommand(suiteCmd)
}
