package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/export"
	"github.com/mucar/barw/internal/logging"
	"github.com/mucar/barw/internal/sim"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and store the grown network",
		Long: `Run one branching random walk with the configured parameters.

Flags override values from the config file. The finished run is saved
to the run database unless --no-save is given.

Example:
  barw run --prob 0.05 --fc 0.1 --fs -0.1 --tmax 200 --seed 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			p := cfg.ToParams()
			if cmd.Flags().Changed("prob") {
				p.Prob, _ = cmd.Flags().GetFloat64("prob")
			}
			if cmd.Flags().Changed("fc") {
				p.FC, _ = cmd.Flags().GetFloat64("fc")
			}
			if cmd.Flags().Changed("fs") {
				p.FS, _ = cmd.Flags().GetFloat64("fs")
			}
			if cmd.Flags().Changed("tmax") {
				p.TMax, _ = cmd.Flags().GetInt("tmax")
			}
			if cmd.Flags().Changed("seed") {
				p.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			stepLog, err := newStepLogger(cfg)
			if err != nil {
				return err
			}
			defer stepLog.Close()
			p.Trace = stepLog

			logger.Info("starting run",
				"prob", p.Prob, "fc", p.FC, "fs", p.FS, "tmax", p.TMax, "seed", p.Seed)

			res, err := sim.Run(p)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			noSave, _ := cmd.Flags().GetBool("no-save")
			var runID int64
			if !noSave {
				ctx := context.Background()
				rs, err := openRunStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer rs.Close()

				runID, err = rs.SaveRun(ctx, p, res)
				if err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				logger.Debug("run saved", "id", runID)
			}

			if exportOut, _ := cmd.Flags().GetString("export"); exportOut != "" {
				paths, err := export.New().WriteResult(exportOut, cfg.Output.ExportPrefix, p, res)
				if err != nil {
					return err
				}
				for _, path := range paths {
					logger.Debug("exported", "path", path)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"run_id":     runID,
					"steps":      res.Steps(),
					"points":     len(res.Coordinates),
					"final_tips": res.Evolve[len(res.Evolve)-1],
					"terminated": res.Steps() < p.TMax,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run complete: %d points over %d steps\n", len(res.Coordinates), res.Steps())
			if res.Steps() < p.TMax {
				fmt.Fprintf(cmd.OutOrStdout(), "All tips terminated at step %d.\n", res.Steps())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d tips still active at the horizon.\n", res.Evolve[len(res.Evolve)-1])
			}
			if runID != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Stored as run %d. Use 'barw show %d' or 'barw view'.\n", runID, runID)
			}
			return nil
		},
	}

	cmd.Flags().Float64("prob", 0, "Branching probability per tip per step")
	cmd.Flags().Float64("fc", 0, "Guidance strength toward the reference direction")
	cmd.Flags().Float64("fs", 0, "Self-interaction strength (negative repels)")
	cmd.Flags().Int("tmax", 0, "Number of growth steps")
	cmd.Flags().Int64("seed", 0, "Random seed")
	cmd.Flags().Bool("no-save", false, "Do not store the run")
	cmd.Flags().String("export", "", "Also export Arrow files to this directory")

	return cmd
}
