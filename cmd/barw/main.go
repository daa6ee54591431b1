package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/config"
	"github.com/mucar/barw/internal/logging"
	"github.com/mucar/barw/internal/store"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "barw",
		Short: "Branching random walk - tissue growth simulator",
		Long: `barw simulates tissue growth as a branching and annihilating random
walk: active tips elongate step by step, branch stochastically, steer
along external guidance, and terminate when they run into grown tissue.

Runs are stored in a local database for listing, visualization, and
export to Arrow files.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("data", "", "Run database directory (default ~/.barw)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.barw/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newListCmd(),
		newShowCmd(),
		newExportCmd(),
		newViewCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "barw version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the effective configuration for a command invocation:
// config file (explicit or default location), environment, then global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("data"); dir != "" {
		cfg.Output.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openRunStore opens the run database named by the configuration.
func openRunStore(ctx context.Context, cfg *config.Config) (*store.RunStore, error) {
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, dir)
}

// newStepLogger returns a per-step trace logger when the configured level
// asks for one, nil otherwise. The caller owns Close.
func newStepLogger(cfg *config.Config) (*logging.StepLogger, error) {
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	return logging.NewStepLogger(dir, cfg.Logging.Level), nil
}
