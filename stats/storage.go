package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MonthlyStats holds the analyzer counters for one month
type MonthlyStats struct {
	ContentCacheHits   int       `json:"content_hits"`
	ContentCacheMisses int       `json:"content_misses"`
	LinkCacheHits      int       `json:"link_hits"`
	LinkCacheMisses    int       `json:"link_misses"`
	PagesFetched       int       `json:"pages_fetched"`
	FetchFailures      int       `json:"fetch_failures"`
	LastUpdated        time.Time `json:"last_updated"`
}

// add accumulates the counters of d
func (m *MonthlyStats) add(d MonthlyStats) {
	m.ContentCacheHits += d.ContentCacheHits
	m.ContentCacheMisses += d.ContentCacheMisses
	m.LinkCacheHits += d.LinkCacheHits
	m.LinkCacheMisses += d.LinkCacheMisses
	m.PagesFetched += d.PagesFetched
	m.FetchFailures += d.FetchFailures
}

// Storage handles persistent storage of statistics
type Storage struct {
	mutex       sync.RWMutex
	saveMu      sync.Mutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	stopped     chan struct{}
	once        sync.Once
	now         func() time.Time
	logger      *zap.Logger
}

// NewStorage creates a statistics storage in dataDir and starts its background writer
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		now:         time.Now,
		logger:      logger,
	}

	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes to a temporary file and renames it over the real one
func (s *Storage) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (s *Storage) backgroundWriter() {
	defer close(s.stopped)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
		case <-ticker.C:
		case <-s.done:
			return
		}
		if err := s.save(); err != nil {
			s.logger.Warn("failed to persist statistics", zap.Error(err))
		}
	}
}

func (s *Storage) currentMonth() string {
	return s.now().Format("2006-01")
}

// monthsAgo returns the YYYY-MM key n months before t. It counts from the
// first of the month so that Mar 31 minus one month is February.
func monthsAgo(t time.Time, n int) string {
	return time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location()).Format("2006-01")
}

// requestWrite signals that a write to disk is needed
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// write already pending
	}
}

// Increment adds delta to the current month. Only the counter fields of delta are used.
func (s *Storage) Increment(delta MonthlyStats) {
	month := s.currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}
	stats.add(delta)
	stats.LastUpdated = s.now()

	if s.now().Sub(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = s.now()
	}
}

// CurrentStats returns statistics for the current month
func (s *Storage) CurrentStats() MonthlyStats {
	stats, _ := s.MonthlyStats(s.currentMonth())
	return stats
}

// MonthlyStats returns statistics for a month in YYYY-MM format
func (s *Storage) MonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// Months returns every month that has statistics, newest first
func (s *Storage) Months() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup keeps the current month plus the retainMonths before it
func (s *Storage) Cleanup(retainMonths int) {
	now := s.now()
	keep := make(map[string]bool, retainMonths+1)
	for i := 0; i <= retainMonths; i++ {
		keep[monthsAgo(now, i)] = true
	}

	s.mutex.Lock()
	removed := 0
	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
			removed++
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
	s.logger.Debug("pruned statistics", zap.Int("removed", removed), zap.Int("retain_months", retainMonths))
}

// Shutdown stops the background writer and saves once more
func (s *Storage) Shutdown() error {
	s.once.Do(func() {
		close(s.done)
	})
	<-s.stopped
	return s.save()
}
