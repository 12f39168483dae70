package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/content-engine/reports"
)

func (s *Server) requireReports(c *gin.Context) bool {
	if s.reports == nil {
		s.fail(c, errReportsDisabled)
		return false
	}
	return true
}

func (s *Server) listReports(c *gin.Context) {
	if !s.requireReports(c) {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	list, err := s.reports.List(c.Request.Context(), c.Query("keyword"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}

func (s *Server) getReport(c *gin.Context) {
	if !s.requireReports(c) {
		return
	}
	rec, err := s.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

var exportContentTypes = map[string]string{
	"json": "application/json; charset=utf-8",
	"yaml": "application/yaml; charset=utf-8",
	"yml":  "application/yaml; charset=utf-8",
}

func (s *Server) exportReport(c *gin.Context) {
	if !s.requireReports(c) {
		return
	}
	format := c.DefaultQuery("format", "json")
	contentType, ok := exportContentTypes[format]
	if !ok {
		s.fail(c, fmt.Errorf("%w: %q", reports.ErrUnsupportedFormat, format))
		return
	}

	rec, err := s.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := reports.Export(rec, format)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.%s"`, rec.ID, format))
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) deleteReport(c *gin.Context) {
	if !s.requireReports(c) {
		return
	}
	if err := s.reports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
