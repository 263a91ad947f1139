package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kayz/kbmcp/internal/logger"
	"github.com/kayz/kbmcp/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (stdio by default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := newKnowledgeClient()
	logger.Info("Knowledge API: %s", client.BaseURL())

	if err := mcp.Serve(ctx, cfg, mcp.NewServer(client)); err != nil {
		logger.Error("[MCP] Server stopped: %v", err)
		return err
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
