package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/mcpserver"
)

func mcpAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a := analyzer.New(cfg.Analyzer, analyzer.Options{
		Logger:   logger,
		Detector: newDetector(cfg, logger),
	})
	defer a.Shutdown()

	s := mcpserver.NewServer(a)

	addr := c.String("http")
	if addr == "" {
		logger.Info("starting MCP server in stdio mode")
		return mcpserver.ServeStdio(s)
	}

	httpServer := mcpserver.NewHTTPServer(s, c.String("endpoint"))
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting MCP server", zap.String("addr", addr), zap.String("endpoint", c.String("endpoint")))
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcp server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	if err := httpServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("mcp server shutdown failed: %w", err)
	}
	return nil
}
