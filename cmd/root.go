package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/RamXX/qaseio/internal/config"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/RamXX/qaseio/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	projectCode string
	apiToken    string
	pytestKey   string
	apiHost     string
	timeout     time.Duration
	envFile     string
	jsonOut     bool
	verbose     bool
	quiet       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "qaseio",
	Short:         "Qase.io test management client",
	Long:          "qaseio -- manage Qase.io cases, suites and runs, and sync pytest suites into a project.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		syncLogger()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errorf("%v", err)
		syncLogger()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectCode, "project", "", "Qase project code (default: $"+config.EnvProject+")")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Qase API token (default: $"+config.EnvToken+")")
	rootCmd.PersistentFlags().StringVar(&pytestKey, "pytest-key", "", "reporter API key written to the config file (default: $"+config.EnvPytestKey+")")
	rootCmd.PersistentFlags().StringVar(&apiHost, "host", "", "Qase host, or a full API root URL (default: qase.io)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default: 30s)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file read for defaults")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

func syncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// log returns the command logger, or a no-op logger before one is built.
func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func loadSettings() (config.Settings, error) {
	return config.Load(config.Overrides{
		Project:   projectCode,
		Token:     apiToken,
		PytestKey: pytestKey,
		Host:      apiHost,
		Timeout:   timeout,
		EnvFile:   envFile,
	})
}

func newClient() (*qase.Client, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if err := s.RequireAPI(); err != nil {
		return nil, err
	}
	return qase.New(qase.Options{
		BaseURL: s.BaseURL(),
		Project: s.Project,
		Token:   s.Token,
		Timeout: s.Timeout,
		Logger:  log(),
	})
}

// openStore opens the config file in dir. A fresh document carries the
// pytest reporter key only; the API token is never written to it.
func openStore(dir string) (*store.Store, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dir, store.Defaults{Project: s.Project, Token: s.PytestKey})
	if err != nil {
		return nil, err
	}
	if !st.Exists() && s.PytestKey == "" {
		log().Warn("no pytest reporter key set; testops.api.token left empty",
			zap.String("env", config.EnvPytestKey))
	}
	return st, nil
}

// parseID parses a positive numeric id.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

// parseIDs parses ids, dropping repeats while keeping first-seen order.
func parseIDs(args []string) ([]int, error) {
	seen := make(map[int]bool, len(args))
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "qaseio: "+format+"\n", args...)
}
