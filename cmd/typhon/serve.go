package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/typhonlabs/typhon/pkg/config"
	typhonmcp "github.com/typhonlabs/typhon/pkg/mcp"
	"github.com/typhonlabs/typhon/pkg/telemetry"
)

// runServe exposes the chaos-wrapped tools over MCP. Stdio is the
// default transport; --http starts a streamable HTTP server instead.
// The session processor is attached as the server's output processor so
// consumption-side faults apply to every serialized tool result.
func runServe(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	cmd := flag.NewFlagSet("serve", flag.ContinueOnError)
	httpAddr := cmd.String("http", "", "listen address for streamable HTTP (default: stdio)")
	seed := cmd.Int64("seed", 0, "chaos engine seed (0 = time-based)")
	upstream := cmd.String("upstream", "", "base URL of an external MCP server whose tools are wrapped too")
	watch := cmd.Bool("watch", false, "hot-reload chaos policy when the config file changes")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())
	if *watch && global.ConfigPath == "" {
		fatal(fmt.Errorf("--watch requires --config <path>"))
	}

	h, err := newHarness(ctx, cfg, logger, *seed)
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := h.Close(context.Background()); err != nil {
			logger.Warn("harness shutdown failed", "error", err)
		}
	}()

	if *upstream != "" {
		upstreamClient, err := h.connectUpstream(ctx, *upstream)
		if err != nil {
			fatal(err)
		}
		defer upstreamClient.Close()
	}

	if *watch {
		watcher, err := config.NewWatcher([]string{global.ConfigPath},
			config.WithWatchLogger(telemetry.ComponentLogger(logger, "config-watcher")))
		if err != nil {
			fatal(err)
		}
		watcher.OnChaosChange(func(cc config.ChaosConfig) {
			if err := applyChaosPolicy(h.engine, cc); err != nil {
				logger.Warn("rejected reloaded chaos policy", "error", err)
				return
			}
			logger.Info("chaos policy reloaded")
		})
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	srv := typhonmcp.NewServer("typhon", version, typhonmcp.WithOutputProcessor(h.processor))
	for _, tool := range h.tools {
		srv.RegisterTool(tool, h.descs[tool.Name()])
	}
	srv.RegisterTool(retrievalAdapter{tool: h.retrieval}, h.retrieval.Description)

	if *httpAddr == "" {
		logger.Info("serving MCP on stdio", "tools", len(h.tools)+1)
		if err := srv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}

	httpServer := mcpserver.NewStreamableHTTPServer(srv.Underlying())
	logger.Info("serving MCP over HTTP", "addr", *httpAddr, "tools", len(h.tools)+1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(*httpAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown failed", "error", err)
		}
	}
}
