package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/reports"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

func readInput(c *cli.Context) (string, error) {
	var (
		data []byte
		err  error
	)
	switch path := c.Args().First(); path {
	case "", "-":
		data, err = io.ReadAll(c.App.Reader)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func analyzeAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	format := strings.ToLower(c.String("format"))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("%w: %q", reports.ErrUnsupportedFormat, format)
	}

	text, err := readInput(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no content to analyze")
	}

	a := analyzer.New(cfg.Analyzer, analyzer.Options{
		Logger:   logger,
		Detector: newDetector(cfg, logger),
	})
	defer a.Shutdown()

	report := a.AnalyzeContent(c.Context, textmetrics.ContentDocument{
		Text:          text,
		Title:         c.String("title"),
		TargetKeyword: c.String("keyword"),
	})

	rec := reports.Record{
		Summary: reports.Summary{
			Title:     report.Title,
			Keyword:   report.TargetKeyword,
			Score:     report.SeoScore.Score,
			Breakdown: report.SeoScore.Breakdown,
			CreatedAt: report.AnalyzedAt,
		},
		Report: report,
	}
	if c.Bool("save") {
		store, err := reports.Open(cfg.ReportsPath())
		if err != nil {
			return fmt.Errorf("failed to open reports: %w", err)
		}
		defer store.Close()
		if rec, err = store.Save(c.Context, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("report saved", zap.String("id", rec.ID))
	}

	out, err := reports.Export(rec, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, strings.TrimRight(string(out), "\n"))
	return err
}

func keywordsAction(c *cli.Context) error {
	seed := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if seed == "" {
		return errors.New("a seed keyword is required")
	}

	related := textmetrics.GenerateRelatedKeywords(seed)
	if limit := c.Int("limit"); limit > 0 && limit < len(related) {
		related = related[:limit]
	}
	for _, kw := range related {
		if _, err := fmt.Fprintln(c.App.Writer, kw); err != nil {
			return err
		}
	}
	return nil
}
