package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/logging"
	"github.com/mucar/barw/internal/sim"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a parameter sweep and store every run",
		Long: `Run the cross product of the given parameter axes in parallel.

Each combination gets a distinct seed derived from the base seed, so
the sweep as a whole is reproducible.

Example:
  barw sweep --probs 0.01,0.05,0.1 --fcs 0,0.1 --fss -0.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			base := cfg.ToParams()
			if cmd.Flags().Changed("tmax") {
				base.TMax, _ = cmd.Flags().GetInt("tmax")
			}
			if cmd.Flags().Changed("seed") {
				base.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			probs, _ := cmd.Flags().GetFloat64Slice("probs")
			fcs, _ := cmd.Flags().GetFloat64Slice("fcs")
			fss, _ := cmd.Flags().GetFloat64Slice("fss")
			workers, _ := cmd.Flags().GetInt("workers")

			runs := sim.Grid(base, probs, fcs, fss)

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			logger.Info("starting sweep", "runs", len(runs), "workers", workers)

			ctx := context.Background()
			outcomes := sim.Sweep(ctx, runs, workers)

			noSave, _ := cmd.Flags().GetBool("no-save")
			type row struct {
				RunID  int64   `json:"run_id,omitempty"`
				Prob   float64 `json:"prob"`
				FC     float64 `json:"fc"`
				FS     float64 `json:"fs"`
				Seed   int64   `json:"seed"`
				Steps  int     `json:"steps"`
				Points int     `json:"points"`
				Error  string  `json:"error,omitempty"`
			}
			var rows []row

			var save func(oc sim.Outcome) (int64, error)
			if !noSave {
				rs, err := openRunStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer rs.Close()
				save = func(oc sim.Outcome) (int64, error) {
					return rs.SaveRun(ctx, oc.Params, oc.Result)
				}
			}

			failed := 0
			for _, oc := range outcomes {
				r := row{Prob: oc.Params.Prob, FC: oc.Params.FC, FS: oc.Params.FS, Seed: oc.Params.Seed}
				if oc.Err != nil {
					r.Error = oc.Err.Error()
					failed++
				} else {
					r.Steps = oc.Result.Steps()
					r.Points = len(oc.Result.Coordinates)
					if save != nil {
						id, err := save(oc)
						if err != nil {
							return fmt.Errorf("failed to save run: %w", err)
						}
						r.RunID = id
					}
				}
				rows = append(rows, r)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"runs":   rows,
					"count":  len(rows),
					"failed": failed,
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROB\tFC\tFS\tSEED\tSTEPS\tPOINTS")
			for _, r := range rows {
				if r.Error != "" {
					fmt.Fprintf(w, "-\t%g\t%g\t%g\t%d\terror: %s\n", r.Prob, r.FC, r.FS, r.Seed, r.Error)
					continue
				}
				fmt.Fprintf(w, "%d\t%g\t%g\t%g\t%d\t%d\t%d\n", r.RunID, r.Prob, r.FC, r.FS, r.Seed, r.Steps, r.Points)
			}
			w.Flush()
			if failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d runs failed.\n", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().Float64Slice("probs", nil, "Branching probabilities to sweep over")
	cmd.Flags().Float64Slice("fcs", nil, "Guidance strengths to sweep over")
	cmd.Flags().Float64Slice("fss", nil, "Self-interaction strengths to sweep over")
	cmd.Flags().Int("tmax", 0, "Growth steps per run")
	cmd.Flags().Int64("seed", 0, "Base random seed")
	cmd.Flags().Int("workers", 0, "Parallel workers (default: number of CPUs)")
	cmd.Flags().Bool("no-save", false, "Do not store the runs")

	return cmd
}
