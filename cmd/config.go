package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/qaseio/internal/format"
	"github.com/RamXX/qaseio/internal/store"
	"github.com/spf13/cobra"
)

var configDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the pytest reporter config (" + store.FileName + ")",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the config document, or the defaults when no file exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(os.Stdout, s.Document())
		}
		if !s.Exists() && !quiet {
			fmt.Printf("# %s does not exist; showing defaults\n", s.Path())
		}
		format.Entries(os.Stdout, s.ConfigEntries())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if s.Exists() && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", s.Path())
		}
		if s.Exists() {
			if err := s.Remove(); err != nil {
				return err
			}
			if s, err = openStore(configDir); err != nil {
				return err
			}
		}
		if err := s.Save(); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("Wrote %s\n", s.Path())
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value (dot notation, e.g. testops.run.id)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		val, err := s.GetConfigValue(args[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		if err := s.SetConfigValue(args[0], args[1]); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("%s = %s\n", args[0], args[1])
		}
		return nil
	},
}

var configRunIDCmd = &cobra.Command{
	Use:   "run-id <id>",
	Short: "Report into an existing run and keep it open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		if err := s.SetRunID(id); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("%s = %d\n", store.KeyRunID, id)
		}
		return nil
	},
}

var configRunTitleCmd = &cobra.Command{
	Use:   "run-title <title>",
	Short: "Report into a new run with this title and complete it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		if err := s.SetRunTitle(args[0]); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("%s = %s\n", store.KeyRunTitle, args[0])
		}
		return nil
	},
}

var configCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete the run when the reporter finishes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRunComplete(true)
	},
}

var configKeepOpenCmd = &cobra.Command{
	Use:   "keep-open",
	Short: "Leave the run open when the reporter finishes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRunComplete(false)
	},
}

func setRunComplete(complete bool) error {
	s, err := openStore(configDir)
	if err != nil {
		return err
	}
	if complete {
		err = s.CompleteRun()
	} else {
		err = s.KeepRunOpen()
	}
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("%s = %t\n", store.KeyRunComplete, complete)
	}
	return nil
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(configDir)
		if err != nil {
			return err
		}
		existed := s.Exists()
		if err := s.Remove(); err != nil {
			return err
		}
		if !quiet {
			if existed {
				fmt.Printf("Removed %s\n", s.Path())
			} else {
				fmt.Printf("%s does not exist\n", s.Path())
			}
		}
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().StringVar(&configDir, "dir", ".", "directory holding "+store.FileName)
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd, configGetCmd, configSetCmd,
		configRunIDCmd, configRunTitleCmd, configCompleteCmd, configKeepOpenCmd, configRemoveCmd)
	rootCmd.AddCommand(configCmd)
}
