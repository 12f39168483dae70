package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/content-engine/middleware"
)

func requireKeyword(c *gin.Context) (string, bool) {
	keyword := c.Query("keyword")
	if keyword == "" {
		badRequest(c, "keyword is required")
		return "", false
	}
	return keyword, true
}

func (s *Server) contentIdeas(c *gin.Context) {
	keyword, ok := requireKeyword(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": s.insights.ContentIdeas(keyword)})
}

func (s *Server) postingTimes(c *gin.Context) {
	keyword, ok := requireKeyword(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"times": s.insights.PostingTimes(keyword)})
}

type gapsRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Content string `json:"content"`
}

func (s *Server) contentGaps(c *gin.Context) {
	var req gapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "keyword is required")
		return
	}
	middleware.SetKeyword(c, req.Keyword)
	c.JSON(http.StatusOK, gin.H{"gaps": s.insights.ContentGaps(req.Keyword, req.Content)})
}

func (s *Server) trends(c *gin.Context) {
	keyword, ok := requireKeyword(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": s.insights.Trends(keyword)})
}

func (s *Server) dashboard(c *gin.Context) {
	score := 0
	if raw := c.Query("score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			badRequest(c, "score must be an integer between 0 and 100")
			return
		}
		score = v
	}
	c.JSON(http.StatusOK, s.insights.Performance(score))
}
