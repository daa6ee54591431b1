package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a stored run to Arrow files",
		Long: `Write a stored run's coordinates, headings, and tip counts to three
Arrow IPC files named after the run's parameters.`,
		Args: cobra.ExactArgs(1),
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

			outDir, _ := cmd.Flags().GetString("out")
			if outDir == "" {
				outDir = cfg.Output.ExportDir
			}
			prefix, _ := cmd.Flags().GetString("prefix")
			if prefix == "" {
				prefix = cfg.Output.ExportPrefix
			}

			paths, err := export.New().WriteResult(outDir, prefix, meta.Params(cfg.ToGeometry()), res)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"run_id": id,
					"files":  paths,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported run %d:\n", id)
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output directory (default from config)")
	cmd.Flags().String("prefix", "", "File name prefix (default from config)")

	return cmd
}
