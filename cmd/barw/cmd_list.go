package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			runs, err := rs.ListRuns(ctx)
			if err != nil {
				return err
			}
			if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs stored yet.")
				fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'barw run' to grow a network.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROB\tFC\tFS\tTMAX\tSEED\tSTEPS\tPOINTS\tCREATED")
			for _, m := range runs {
				fmt.Fprintf(w, "%d\t%g\t%g\t%g\t%d\t%d\t%d\t%d\t%s\n",
					m.ID, m.Prob, m.FC, m.FS, m.TMax, m.Seed, m.Steps, m.Points,
					m.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 0, "Maximum number of runs to show (0 = all)")

	return cmd
}
