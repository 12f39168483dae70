package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/api"
	"github.com/seo-optimizer/content-engine/assistant"
	"github.com/seo-optimizer/content-engine/insights"
	"github.com/seo-optimizer/content-engine/middleware"
)

const (
	maintenanceInterval = 10 * time.Minute
	usageRetainMonths   = 12
	chatIdleTimeout     = 30 * time.Minute
	shutdownTimeout     = 15 * time.Second
)

func serveAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	svc, err := newServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.close(logger)

	chat := assistant.New(cfg.Server.ChatDelay)
	server := api.NewServer(cfg.Server, api.Deps{
		Logger:    logger,
		Analyzer:  svc.analyzer,
		Reports:   svc.reports,
		Stats:     svc.statistics,
		Usage:     svc.usage,
		Metrics:   svc.collector,
		Assistant: chat,
		Insights:  insights.New(),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Analyzer.FetchTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go maintain(ctx, svc, server.RateLimiter(), chat, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// maintain periodically persists statistics and drops stale state
func maintain(ctx context.Context, svc *services, limiter *middleware.RateLimiter, chat *assistant.Assistant, logger *zap.Logger) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune()
			if n := chat.Prune(chatIdleTimeout); n > 0 {
				logger.Debug("ended idle conversations", zap.Int("count", n))
			}
			svc.usage.Cleanup(usageRetainMonths)
			svc.statistics.Prune()
			if err := svc.statistics.Save(); err != nil {
				logger.Warn("failed to save statistics", zap.Error(err))
			}
		}
	}
}
