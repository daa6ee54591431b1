package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run's parameters and tip-count history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id: %s", args[0])
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			rs, err := openRunStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer rs.Close()

			meta, err := rs.GetRun(ctx, id)
			if err != nil {
				return err
			}
			res, err := rs.LoadResult(ctx, id)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"run":    meta,
					"evolve": res.Evolve,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %d\n", meta.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  Parameters: prob=%g fc=%g fs=%g tmax=%d seed=%d\n",
				meta.Prob, meta.FC, meta.FS, meta.TMax, meta.Seed)
			fmt.Fprintf(cmd.OutOrStdout(), "  Steps:      %d\n", meta.Steps)
			fmt.Fprintf(cmd.OutOrStdout(), "  Points:     %d\n", meta.Points)
			fmt.Fprintf(cmd.OutOrStdout(), "  Created:    %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(cmd.OutOrStdout())

			counts := make([]string, len(res.Evolve))
			for i, n := range res.Evolve {
				counts[i] = strconv.Itoa(n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active tips per step:\n  %s\n", strings.Join(counts, " "))
			return nil
		},
	}
}
