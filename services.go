package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/language"
	"github.com/seo-optimizer/content-engine/logging"
	"github.com/seo-optimizer/content-engine/metrics"
	"github.com/seo-optimizer/content-engine/reports"
	"github.com/seo-optimizer/content-engine/stats"
)

// setup loads the configuration and builds the logger every command uses
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// newDetector builds the language detector. Detection is skipped when the
// configured languages cannot be used.
func newDetector(cfg *config.Config, logger *zap.Logger) *language.Detector {
	detector, err := language.NewDetector(cfg.Languages)
	if err != nil {
		logger.Warn("language detection disabled", zap.Error(err))
		return nil
	}
	return detector
}

// services are the long lived components of the HTTP server
type services struct {
	usage      *stats.Storage
	statistics *logging.Statistics
	collector  *metrics.Collector
	analyzer   *analyzer.Analyzer
	reports    *reports.Store
}

func newServices(cfg *config.Config, logger *zap.Logger) (*services, error) {
	usage, err := stats.NewStorage(cfg.Data.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage statistics: %w", err)
	}

	statistics, err := logging.NewStatistics(filepath.Join(cfg.Data.Dir, logging.StatisticsFile), cfg.DevMode)
	if err != nil {
		shutdownUsage(usage, logger)
		return nil, fmt.Errorf("failed to load request statistics: %w", err)
	}

	store, err := reports.Open(cfg.ReportsPath())
	if err != nil {
		shutdownUsage(usage, logger)
		return nil, fmt.Errorf("failed to open reports: %w", err)
	}

	collector := metrics.NewCollector("seo_engine")
	return &services{
		usage:      usage,
		statistics: statistics,
		collector:  collector,
		reports:    store,
		analyzer: analyzer.New(cfg.Analyzer, analyzer.Options{
			Logger:   logger,
			Stats:    usage,
			Detector: newDetector(cfg, logger),
			Recorder: collector,
		}),
	}, nil
}

func shutdownUsage(usage *stats.Storage, logger *zap.Logger) {
	if err := usage.Shutdown(); err != nil {
		logger.Error("failed to shutdown usage statistics", zap.Error(err))
	}
}

// close flushes statistics and releases storage. The analyzer shuts down
// the usage storage it was given.
func (s *services) close(logger *zap.Logger) {
	if err := s.analyzer.Shutdown(); err != nil {
		logger.Error("analyzer shutdown failed", zap.Error(err))
	}
	s.statistics.Prune()
	if err := s.statistics.Save(); err != nil {
		logger.Error("failed to save statistics", zap.Error(err))
	}
	if err := s.reports.Close(); err != nil {
		logger.Error("failed to close reports", zap.Error(err))
	}
}
