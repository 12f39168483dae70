package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/assistant"
	"github.com/seo-optimizer/content-engine/middleware"
	"github.com/seo-optimizer/content-engine/reports"
)

var errReportsDisabled = errors.New("report storage is disabled")

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// statusFor maps service errors onto HTTP statuses
func statusFor(err error) int {
	var timeout interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeout) && timeout.Timeout():
		return http.StatusGatewayTimeout
	case errors.Is(err, reports.ErrNotFound),
		errors.Is(err, assistant.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrInvalidURL),
		errors.Is(err, assistant.ErrEmptyQuestion),
		errors.Is(err, reports.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrUnsupportedContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analyzer.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, analyzer.ErrUnavailable),
		errors.Is(err, errReportsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal errors are logged and hidden.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("requestID", middleware.GetRequestID(c)),
			zap.Error(err))
		message = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
