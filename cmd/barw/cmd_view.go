package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mucar/barw/internal/visualization"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse stored runs in a local web UI",
		Long: `Start a local HTTP server that lists stored runs and renders each
grown network as an SVG. Blocks until Ctrl-C.`,
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

			srv := visualization.NewServer(rs)

			srvCtx, srvCancel := context.WithCancel(ctx)
			defer srvCancel()

			// Handle SIGINT/SIGTERM for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			go func() {
				select {
				case <-sigCh:
					srvCancel()
				case <-srvCtx.Done():
				}
			}()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(srvCtx) }()

			// Wait for server to start
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				if srv.Addr() != "" {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			addr := srv.Addr()
			if addr == "" {
				return fmt.Errorf("server failed to start")
			}

			url := "http://" + addr
			fmt.Fprintf(cmd.OutOrStdout(), "Run browser at %s\n", url)
			fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

			noOpen, _ := cmd.Flags().GetBool("no-open")
			if !noOpen {
				if err := openBrowser(url); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
				}
			}

			if err := <-errCh; err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-open", false, "Do not open the browser automatically")

	return cmd
}

// openBrowser opens the URL in the user's default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
