package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/logging"
)

const keywordKey = "keyword"

// saveEvery is how many tracked requests pass between statistics saves
const saveEvery = 100

// SetKeyword lets a handler report the target keyword of the request
func SetKeyword(c *gin.Context, keyword string) {
	c.Set(keywordKey, keyword)
}

// Stats records visitors and, for POST requests under prefix, endpoint
// popularity, keywords, load times and errors.
func Stats(stats *logging.Statistics, prefix string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost || !strings.HasPrefix(c.Request.URL.Path, prefix) {
			return
		}
		endpoint := c.FullPath()
		if endpoint == "" {
			return
		}

		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackRequest(endpoint, c.GetString(keywordKey), loadTime, c.Writer.Status() >= http.StatusBadRequest)

		if stats.Requests()%saveEvery == 0 {
			go func() {
				stats.Prune()
				if err := stats.Save(); err != nil {
					logger.Warn("failed to save statistics", zap.Error(err))
				}
			}()
		}
	}
}
