// Package mcp assembles the MCP server that exposes the knowledge tools and
// runs it over stdio or SSE.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kayz/kbmcp/internal/config"
	"github.com/kayz/kbmcp/internal/logger"
	"github.com/kayz/kbmcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "enterprise_knowledge"
	ServerVersion = "1.0.0"
)

// NewServer builds an MCP server with the three knowledge tools registered.
func NewServer(kb tools.Knowledge) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(tools.SearchDocumentsTool(), server.ToolHandlerFunc(tools.SearchDocuments(kb)))
	s.AddTool(tools.GetDocumentContentTool(), server.ToolHandlerFunc(tools.GetDocumentContent(kb)))
	s.AddTool(tools.AskKnowledgeBaseTool(), server.ToolHandlerFunc(tools.AskKnowledgeBase(kb)))

	return s
}

// Serve runs s on the configured transport until ctx is cancelled or the
// transport fails.
func Serve(ctx context.Context, cfg *config.Config, s *server.MCPServer) error {
	switch cfg.Transport {
	case config.TransportSSE:
		return serveSSE(ctx, cfg.Port, s)
	case config.TransportStdio, "":
		return serveStdio(ctx, s)
	default:
		return fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}

func serveStdio(ctx context.Context, s *server.MCPServer) error {
	logger.Info("[MCP] %s %s serving on stdio", ServerName, ServerVersion)

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(logger.StdLog())

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func serveSSE(ctx context.Context, port int, s *server.MCPServer) error {
	addr := fmt.Sprintf(":%d", port)
	sse := server.NewSSEServer(s, server.WithBaseURL(fmt.Sprintf("http://127.0.0.1:%d", port)))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[MCP] %s %s serving SSE on http://127.0.0.1%s/sse", ServerName, ServerVersion, addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sse server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sse shutdown: %w", err)
	}
	return nil
}
