package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// StatisticsFile is the file name used inside the data directory
const StatisticsFile = "statistics.json"

// visitorWindow is how long a visitor counts as unique
const visitorWindow = 24 * time.Hour

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> last visit
	AnalysisRequests int                  `json:"analysisRequests"` // requests to tracked endpoints
	ErrorCount       int                  `json:"errorCount"`
	PopularEndpoints map[string]int       `json:"popularEndpoints"`
	PopularKeywords  map[string]int       `json:"popularKeywords"` // target keyword -> count
	AverageLoadTime  float64              `json:"averageLoadTime"` // milliseconds
	TotalLoadTime    float64              `json:"totalLoadTime"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	path    string
	devMode bool
	now     func() time.Time
	mutex   sync.RWMutex
}

// Count is an entry of a popularity ranking
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewStatistics creates statistics persisted at path, loading what is
// already there. devMode exposes the full detail in Snapshot.
func NewStatistics(path string, devMode bool) (*Statistics, error) {
	s := &Statistics{
		UniqueVisitors:   make(map[string]time.Time),
		PopularEndpoints: make(map[string]int),
		PopularKeywords:  make(map[string]int),
		path:             path,
		devMode:          devMode,
		now:              time.Now,
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = s.now()
}

// TrackRequest records a tracked API request
func (s *Statistics) TrackRequest(endpoint, keyword string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++
	if endpoint != "" {
		s.PopularEndpoints[endpoint]++
	}
	if kw := cleanKeyword(keyword); kw != "" {
		s.PopularKeywords[kw]++
	}
	if hasError {
		s.ErrorCount++
	}

	s.TotalLoadTime += loadTime
	s.AverageLoadTime = s.TotalLoadTime / float64(s.AnalysisRequests)
}

// cleanKeyword folds case and collapses whitespace so variants count together
func cleanKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// Requests returns the number of tracked requests
func (s *Statistics) Requests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AnalysisRequests
}

// UniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) UniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitors()
}

func (s *Statistics) uniqueVisitors() int {
	cutoff := s.now().Add(-visitorWindow)
	count := 0
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// ErrorRate returns the error rate as a percentage
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRate()
}

func (s *Statistics) errorRate() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.AnalysisRequests) * 100
}

// PopularKeywordsTop returns the n most requested keywords, most popular first
func (s *Statistics) PopularKeywordsTop(n int) []Count {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return top(s.PopularKeywords, n)
}

// PopularEndpointsTop returns the n most requested endpoints, most popular first
func (s *Statistics) PopularEndpointsTop(n int) []Count {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return top(s.PopularEndpoints, n)
}

// top ranks by count; ties break alphabetically so the order is stable
func top(counts map[string]int, n int) []Count {
	ranked := make([]Count, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, Count{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Snapshot returns the statistics for the API. Outside development mode
// the popularity rankings are left out.
func (s *Statistics) Snapshot() map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := map[string]any{
		"uniqueVisitors24h": s.uniqueVisitors(),
		"totalRequests":     s.AnalysisRequests,
		"errorRate":         s.errorRate(),
		"averageLoadTime":   s.AverageLoadTime,
	}
	if s.devMode {
		out["popularEndpoints"] = top(s.PopularEndpoints, 5)
		out["popularKeywords"] = top(s.PopularKeywords, 5)
	}
	return out
}

// Prune drops visitors last seen outside the unique visitor window
func (s *Statistics) Prune() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-visitorWindow)
	for ip, lastVisit := range s.UniqueVisitors {
		if !lastVisit.After(cutoff) {
			delete(s.UniqueVisitors, ip)
		}
	}
}

// Save persists the statistics, replacing the file atomically
func (s *Statistics) Save() error {
	s.mutex.Lock()
	s.LastPersisted = s.now()
	data, err := json.Marshal(s)
	s.mutex.Unlock()
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("could not create statistics directory: %w", err)
	}
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not replace statistics file: %w", err)
	}
	return nil
}

// Load reads the statistics from disk. A missing file is not an error.
func (s *Statistics) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularEndpoints == nil {
		s.PopularEndpoints = make(map[string]int)
	}
	if s.PopularKeywords == nil {
		s.PopularKeywords = make(map[string]int)
	}
	return nil
}
