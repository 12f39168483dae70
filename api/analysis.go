package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/middleware"
	"github.com/seo-optimizer/content-engine/reports"
	"github.com/seo-optimizer/content-engine/schema"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

type contentRequest struct {
	Content       string `json:"content" binding:"required"`
	Title         string `json:"title"`
	TargetKeyword string `json:"targetKeyword"`
}

type analyzeRequest struct {
	contentRequest
	Save bool `json:"save"`
}

type analyzeURLRequest struct {
	URL           string `json:"url" binding:"required,url"`
	TargetKeyword string `json:"targetKeyword"`
	Save          bool   `json:"save"`
}

type analysisResponse struct {
	*analyzer.Report
	Saved *reports.Summary `json:"saved,omitempty"`
}

func (s *Server) respondReport(c *gin.Context, report *analyzer.Report, save bool) {
	resp := analysisResponse{Report: report}
	if save {
		if s.reports == nil {
			s.fail(c, errReportsDisabled)
			return
		}
		rec, err := s.reports.Save(c.Request.Context(), report)
		if err != nil {
			s.fail(c, err)
			return
		}
		if s.metrics != nil {
			s.metrics.ReportsSaved.Inc()
		}
		resp.Saved = &rec.Summary
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) analyzeContent(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)

	report := s.analyzer.AnalyzeContent(c.Request.Context(), textmetrics.ContentDocument{
		Text:          req.Content,
		Title:         req.Title,
		TargetKeyword: req.TargetKeyword,
	})
	if s.metrics != nil {
		s.metrics.Analyses.WithLabelValues("content").Inc()
	}
	s.respondReport(c, report, req.Save)
}

func (s *Server) analyzeURL(c *gin.Context) {
	var req analyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid URL provided")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)

	report, err := s.analyzer.AnalyzeURL(c.Request.Context(), req.URL, req.TargetKeyword)
	if err != nil {
		s.fail(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.Analyses.WithLabelValues("url").Inc()
	}
	s.respondReport(c, report, req.Save)
}

func (s *Server) readability(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	c.JSON(http.StatusOK, textmetrics.AnalyzeReadability(req.Content))
}

func (s *Server) extractKeywords(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": textmetrics.ExtractKeywords(req.Content)})
}

func (s *Server) relatedKeywords(c *gin.Context) {
	seed := c.Query("seed")
	if seed == "" {
		badRequest(c, "seed is required")
		return
	}
	middleware.SetKeyword(c, seed)

	related := textmetrics.GenerateRelatedKeywords(seed)
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		if limit < len(related) {
			related = related[:limit]
		}
	}
	c.JSON(http.StatusOK, gin.H{"seed": seed, "keywords": related})
}

func (s *Server) metaTags(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	c.JSON(http.StatusOK, textmetrics.GenerateMetaTags(req.Title, req.Content))
}

type schemaRequest struct {
	Type   string            `json:"type" binding:"required,schematype"`
	Fields map[string]string `json:"fields"`
}

func (s *Server) schemaMarkup(c *gin.Context) {
	var req schemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "type must be one of article, product, faq, review, event")
		return
	}

	markup, err := schema.Generate(schema.Type(req.Type), req.Fields)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":      req.Type,
		"markup":    markup,
		"scriptTag": schema.ScriptTag(markup),
	})
}

func (s *Server) tips(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)
	c.JSON(http.StatusOK, gin.H{"tips": textmetrics.GetOptimizationTips(req.Content, req.TargetKeyword)})
}

func (s *Server) suggestions(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)
	c.JSON(http.StatusOK, gin.H{
		"suggestions": textmetrics.GetContentImprovementSuggestions(req.Content, req.Title, req.TargetKeyword),
	})
}

type internalLinksRequest struct {
	contentRequest
	Pages []textmetrics.Page `json:"pages"`
}

func (s *Server) internalLinks(c *gin.Context) {
	var req internalLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)
	c.JSON(http.StatusOK, gin.H{
		"suggestions": textmetrics.GenerateInternalLinkingSuggestions(req.Content, req.Title, req.TargetKeyword, req.Pages),
	})
}

type altTextRequest struct {
	ImageURL      string `json:"imageUrl" binding:"required"`
	Content       string `json:"content"`
	TargetKeyword string `json:"targetKeyword"`
}

func (s *Server) altText(c *gin.Context) {
	var req altTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "imageUrl is required")
		return
	}
	middleware.SetKeyword(c, req.TargetKeyword)
	c.JSON(http.StatusOK, gin.H{
		"altText": textmetrics.GenerateAltText(req.ImageURL, req.Content, req.TargetKeyword),
	})
}
