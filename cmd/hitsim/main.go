package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/martin2250/hit-sim/internal/config"
	"github.com/martin2250/hit-sim/internal/logging"
	"github.com/martin2250/hit-sim/internal/runner"
	"github.com/martin2250/hit-sim/internal/storage"
)

var (
	configFile string
	scratchDir string
	simulator  string
	workers    int
	logLevel   string
	console    bool

	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hitsim",
		Short:         "Cached hit_sim runs for the detector study",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			l, err := logging.New(cfg.LogLevel, console)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file")
	pf.StringVar(&scratchDir, "scratch", config.DefaultScratchDir, "directory for scripts and artifacts")
	pf.StringVar(&simulator, "simulator", config.DefaultSimulator, "path to the hit_sim executable")
	pf.IntVarP(&workers, "workers", "j", config.DefaultWorkers, "concurrent simulator processes")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.BoolVar(&console, "console", false, "human readable logs instead of JSON")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(scriptCmd())
	rootCmd.AddCommand(fingerprintCmd())
	rootCmd.AddCommand(presetsCmd())
	rootCmd.AddCommand(pruneCmd())
	rootCmd.AddCommand(exportCmd())
	return rootCmd
}

// exitCode passes a failed simulator's status through; everything else is 1.
func exitCode(err error) int {
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// loadConfig reads --config (if any), applies HITSIM_* overrides and then
// any flag the user set explicitly. The logger level comes from here too,
// so log_level in the file applies unless --log-level is given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("scratch") {
		cfg.ScratchDir = scratchDir
	}
	if flags.Changed("simulator") {
		cfg.Simulator = simulator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func openStore(cmd *cobra.Command) (*config.Config, *storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cfg, storage.New(cfg.ScratchDir), nil
}
