// Package api exposes the analysis engine over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/assistant"
	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/insights"
	"github.com/seo-optimizer/content-engine/logging"
	"github.com/seo-optimizer/content-engine/metrics"
	"github.com/seo-optimizer/content-engine/middleware"
	"github.com/seo-optimizer/content-engine/reports"
	"github.com/seo-optimizer/content-engine/schema"
	"github.com/seo-optimizer/content-engine/stats"
)

// ReportStore persists analyses
type ReportStore interface {
	Save(ctx context.Context, report *analyzer.Report) (reports.Record, error)
	Get(ctx context.Context, id string) (reports.Record, error)
	List(ctx context.Context, keyword string, limit int) ([]reports.Summary, error)
	Delete(ctx context.Context, id string) error
}

// Deps are the services behind the HTTP handlers. Reports, Stats and
// Metrics are optional.
type Deps struct {
	Logger    *zap.Logger
	Analyzer  *analyzer.Analyzer
	Reports   ReportStore
	Stats     *logging.Statistics
	Usage     *stats.Storage
	Metrics   *metrics.Collector
	Assistant *assistant.Assistant
	Insights  *insights.Generator
}

// Server holds the gin engine and its handlers
type Server struct {
	cfg         config.ServerConfig
	logger      *zap.Logger
	analyzer    *analyzer.Analyzer
	reports     ReportStore
	stats       *logging.Statistics
	usage       *stats.Storage
	metrics     *metrics.Collector
	assistant   *assistant.Assistant
	insights    *insights.Generator
	rateLimiter *middleware.RateLimiter
	engine      *gin.Engine
}

var registerOnce sync.Once

// registerValidators adds the custom binding tags used by request types
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterValidation("schematype", func(fl validator.FieldLevel) bool {
				return schema.Type(fl.Field().String()).Valid()
			})
		}
	})
}

// NewServer builds the router with every middleware and route registered
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	registerValidators()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		analyzer:    deps.Analyzer,
		reports:     deps.Reports,
		stats:       deps.Stats,
		usage:       deps.Usage,
		metrics:     deps.Metrics,
		assistant:   deps.Assistant,
		insights:    deps.Insights,
		rateLimiter: middleware.NewRateLimiter(cfg.Rate, cfg.Burst),
		engine:      gin.New(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RateLimiter returns the per-IP limiter so idle buckets can be pruned
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) routes() {
	r := s.engine
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.Use(middleware.CORS(s.cfg.CORSOrigin))

	api := r.Group("/api")
	if s.stats != nil {
		api.Use(middleware.Stats(s.stats, "/api/v1", s.logger))
	}
	api.GET("/health", s.health)
	api.GET("/statistics", s.statistics)
	api.GET("/statistics/monthly", s.monthlyUsage)

	v1 := api.Group("/v1")
	v1.Use(s.rateLimiter.RateLimit())
	{
		v1.POST("/analyze", s.analyzeContent)
		v1.POST("/analyze-url", s.analyzeURL)
		v1.POST("/readability", s.readability)
		v1.POST("/keywords/extract", s.extractKeywords)
		v1.GET("/keywords", s.relatedKeywords)
		v1.POST("/meta-tags", s.metaTags)
		v1.POST("/schema", s.schemaMarkup)
		v1.POST("/tips", s.tips)
		v1.POST("/suggestions", s.suggestions)
		v1.POST("/internal-links", s.internalLinks)
		v1.POST("/alt-text", s.altText)

		v1.GET("/ideas", s.contentIdeas)
		v1.GET("/posting-times", s.postingTimes)
		v1.POST("/gaps", s.contentGaps)
		v1.GET("/trends", s.trends)
		v1.GET("/dashboard", s.dashboard)

		v1.POST("/chat", s.chat)
		v1.GET("/chat/:id", s.chatHistory)
		v1.DELETE("/chat/:id", s.endChat)

		v1.GET("/reports", s.listReports)
		v1.GET("/reports/:id", s.getReport)
		v1.GET("/reports/:id/export", s.exportReport)
		v1.DELETE("/reports/:id", s.deleteReport)
	}
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if s.analyzer != nil {
		body["cache"] = s.analyzer.CacheStats()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) statistics(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.stats.Snapshot())
}

type monthlyUsage struct {
	Month string `json:"month"`
	stats.MonthlyStats
}

// monthlyUsage lists the analyzer cache and fetch counters per month, newest first
func (s *Server) monthlyUsage(c *gin.Context) {
	out := []monthlyUsage{}
	if s.usage != nil {
		for _, month := range s.usage.Months() {
			if m, ok := s.usage.MonthlyStats(month); ok {
				out = append(out, monthlyUsage{Month: month, MonthlyStats: m})
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"months": out})
}
