package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Expose the simulator as MCP tools (barw_run, barw_sweep, barw_list,
barw_show) for agent clients. Communicates over stdin/stdout; blocks
until the client disconnects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dataDir, err := cfg.DataDir()
			if err != nil {
				return err
			}

			ctx := context.Background()
			srv, err := mcp.NewServer(ctx, &mcp.ServerConfig{
				Name:     "barw",
				Version:  version,
				DataDir:  dataDir,
				Defaults: cfg,
			})
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}

			return srv.Run(ctx)
		},
	}
}
