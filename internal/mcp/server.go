// Package mcp provides an MCP (Model Context Protocol) server for barw.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mucar/barw/internal/config"
	"github.com/mucar/barw/internal/store"
)

// Server wraps the MCP SDK server and exposes simulation tools.
type Server struct {
	server   *sdk.Server
	store    *store.RunStore
	defaults *config.Config
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name     string // Server name (e.g., "barw")
	Version  string // Server version
	DataDir  string // Run database directory
	Defaults *config.Config
}

// NewServer creates a new MCP server with barw tools.
func NewServer(ctx context.Context, cfg *ServerConfig) (*Server, error) {
	defaults := cfg.Defaults
	if defaults == nil {
		defaults = config.Default()
	}

	runStore, err := store.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:   mcpServer,
		store:    runStore,
		defaults: defaults,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.store.Close()
}
