package logging

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/content-engine/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", StatisticsFile)
	stats, err := NewStatistics(path, true)
	require.NoError(t, err)

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	stats.now = func() time.Time { return now }

	t.Run("TrackRequest", func(t *testing.T) {
		stats.TrackRequest("/api/v1/analyze", "Go  Testing", 100, false)
		stats.TrackRequest("/api/v1/analyze", "go testing", 300, true)
		stats.TrackRequest("/api/v1/tips", "", 200, false)

		assert.Equal(t, 3, stats.Requests())
		assert.InDelta(t, 33.33, stats.ErrorRate(), 0.01)
		assert.Equal(t, []Count{{Name: "go testing", Count: 2}}, stats.PopularKeywordsTop(5))
		assert.Equal(t, []Count{{Name: "/api/v1/analyze", Count: 2}}, stats.PopularEndpointsTop(1))

		snapshot := stats.Snapshot()
		assert.Equal(t, 200.0, snapshot["averageLoadTime"])
		assert.Contains(t, snapshot, "popularKeywords")
	})

	t.Run("UniqueVisitors", func(t *testing.T) {
		stats.TrackVisitor("10.0.0.1")
		stats.TrackVisitor("10.0.0.2")
		stats.UniqueVisitors["10.0.0.3"] = now.Add(-48 * time.Hour)

		assert.Equal(t, 2, stats.UniqueVisitorsCount())
		stats.Prune()
		assert.Len(t, stats.UniqueVisitors, 2)
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, stats.Save())

		reloaded, err := NewStatistics(path, false)
		require.NoError(t, err)
		assert.Equal(t, 3, reloaded.Requests())
		assert.Equal(t, 2, reloaded.PopularKeywords["go testing"])

		snapshot := reloaded.Snapshot()
		assert.NotContains(t, snapshot, "popularKeywords")
		assert.InDelta(t, 200.0, snapshot["averageLoadTime"], 0.001)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					stats.TrackRequest("/api/v1/readability", "", 1, false)
					stats.Snapshot()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1003, stats.Requests())
	})
}
