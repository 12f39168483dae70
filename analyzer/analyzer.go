package analyzer

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/language"
	"github.com/seo-optimizer/content-engine/stats"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

// Recorder receives analyzer events for metrics
type Recorder interface {
	CacheLookup(cache string, hit bool)
	PageFetched(outcome string, duration time.Duration)
	BreakerState(state gobreaker.State)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool)          {}
func (nopRecorder) PageFetched(string, time.Duration) {}
func (nopRecorder) BreakerState(gobreaker.State)      {}

// Options carries the optional collaborators of an Analyzer
type Options struct {
	Logger   *zap.Logger
	Stats    *stats.Storage
	Detector *language.Detector
	Recorder Recorder
	Client   *http.Client
}

type cacheEntry struct {
	report    *Report
	timestamp time.Time
}

// CacheStats provides statistics about the analyzer's caches
type CacheStats struct {
	ContentEntries     int           `json:"contentEntries"`
	LinkEntries        int           `json:"linkEntries"`
	ContentCacheHits   int           `json:"contentCacheHits"`
	ContentCacheMisses int           `json:"contentCacheMisses"`
	LinkCacheHits      int           `json:"linkCacheHits"`
	LinkCacheMisses    int           `json:"linkCacheMisses"`
	PagesFetched       int           `json:"pagesFetched"`
	FetchFailures      int           `json:"fetchFailures"`
	ContentCacheTTL    time.Duration `json:"contentCacheTTL"`
	LinkCacheTTL       time.Duration `json:"linkCacheTTL"`
}

// Analyzer runs content analysis and page audits
type Analyzer struct {
	cfg      config.AnalyzerConfig
	logger   *zap.Logger
	stats    *stats.Storage
	detector *language.Detector
	recorder Recorder
	fetcher  *fetcher
	links    *linkChecker
	now      func() time.Time

	cacheMutex sync.RWMutex
	cache      map[string]cacheEntry

	done     chan struct{}
	stopOnce sync.Once
}

// New creates an Analyzer and starts its cache cleanup loop
func New(cfg config.AnalyzerConfig, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: cfg.FetchTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	a := &Analyzer{
		cfg:      cfg,
		logger:   logger,
		stats:    opts.Stats,
		detector: opts.Detector,
		recorder: recorder,
		fetcher:  newFetcher(client, cfg.MaxBodyBytes, cfg.UserAgent, logger),
		links:    newLinkChecker(client, cfg.UserAgent, max(cfg.LinkConcurrency, 1), cfg.LinkCacheTTL),
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
		done:     make(chan struct{}),
	}
	a.links.onLookup = func(hit bool) {
		a.recorder.CacheLookup("link", hit)
		if hit {
			a.count(stats.MonthlyStats{LinkCacheHits: 1})
		} else {
			a.count(stats.MonthlyStats{LinkCacheMisses: 1})
		}
	}

	go a.periodicCleanup(5 * time.Minute)
	return a
}

func (a *Analyzer) count(delta stats.MonthlyStats) {
	if a.stats != nil {
		a.stats.Increment(delta)
	}
}

func (a *Analyzer) periodicCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cleanup()
		case <-a.done:
			return
		}
	}
}

// cleanup removes expired entries and enforces the cache size limits
func (a *Analyzer) cleanup() {
	now := a.now()

	a.cacheMutex.Lock()
	evict(a.cache, now, a.cfg.CacheTTL, a.cfg.MaxCacheSize, func(e cacheEntry) time.Time { return e.timestamp })
	a.cacheMutex.Unlock()

	a.links.prune(now)
}

// evict deletes entries older than ttl and then the oldest entries until at most limit remain
func evict[E any](entries map[string]E, now time.Time, ttl time.Duration, limit int, stamp func(E) time.Time) {
	for key, entry := range entries {
		if now.Sub(stamp(entry)) > ttl {
			delete(entries, key)
		}
	}
	if limit <= 0 || len(entries) <= limit {
		return
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return stamp(entries[keys[i]]).Before(stamp(entries[keys[j]]))
	})
	for _, key := range keys[:len(keys)-limit] {
		delete(entries, key)
	}
}

// cacheKey hashes the parts into a fixed length key
func cacheKey(parts ...string) string {
	hash := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// AnalyzeContent runs every text metric over doc. Identical documents are
// served from the cache until the TTL expires; callers must not modify the
// returned report.
func (a *Analyzer) AnalyzeContent(ctx context.Context, doc textmetrics.ContentDocument) *Report {
	key := cacheKey(doc.Title, doc.TargetKeyword, doc.Text)

	a.cacheMutex.RLock()
	entry, found := a.cache[key]
	a.cacheMutex.RUnlock()
	if found && a.now().Sub(entry.timestamp) < a.cfg.CacheTTL {
		a.recorder.CacheLookup("content", true)
		a.count(stats.MonthlyStats{ContentCacheHits: 1})
		return entry.report
	}
	a.recorder.CacheLookup("content", false)
	a.count(stats.MonthlyStats{ContentCacheMisses: 1})

	report := a.buildReport(doc)

	a.cacheMutex.Lock()
	a.cache[key] = cacheEntry{report: report, timestamp: a.now()}
	oversize := a.cfg.MaxCacheSize > 0 && len(a.cache) > a.cfg.MaxCacheSize
	a.cacheMutex.Unlock()
	if oversize {
		go a.cleanup()
	}

	a.logger.Debug("content analyzed",
		zap.String("keyword", doc.TargetKeyword),
		zap.Int("words", report.Readability.WordCount),
		zap.Int("score", report.SeoScore.Score))
	return report
}

func (a *Analyzer) buildReport(doc textmetrics.ContentDocument) *Report {
	keywords := textmetrics.ExtractKeywords(doc.Text)

	seed := strings.TrimSpace(doc.TargetKeyword)
	if seed == "" && len(keywords) > 0 {
		seed = keywords[0]
	}
	related := []string{}
	if seed != "" {
		related = textmetrics.GenerateRelatedKeywords(seed)
	}

	report := &Report{
		Title:           doc.Title,
		TargetKeyword:   doc.TargetKeyword,
		Readability:     textmetrics.AnalyzeReadability(doc.Text),
		SeoScore:        textmetrics.CalculateSeoScore(doc.Text, doc.TargetKeyword, doc.Title),
		Tips:            textmetrics.GetOptimizationTips(doc.Text, doc.TargetKeyword),
		Suggestions:     textmetrics.GetContentImprovementSuggestions(doc.Text, doc.Title, doc.TargetKeyword),
		Keywords:        keywords,
		RelatedKeywords: related,
		MetaTags:        textmetrics.GenerateMetaTags(doc.Title, doc.Text),
		AnalyzedAt:      a.now(),
	}
	if lang, ok := a.detector.Detect(doc.Text); ok {
		report.Language = &lang
	}
	return report
}

// AnalyzeURL fetches a page, audits its markup and analyzes its main content
// for keyword.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL, keyword string) (*Report, error) {
	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		return nil, err
	}

	start := a.now()
	page, err := a.fetcher.fetch(ctx, pageURL)
	a.recorder.BreakerState(a.fetcher.state())
	if err != nil {
		a.recorder.PageFetched(fetchOutcome(err), a.now().Sub(start))
		a.count(stats.MonthlyStats{FetchFailures: 1})
		a.logger.Warn("page fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	a.recorder.PageFetched("ok", page.loadTime)
	a.count(stats.MonthlyStats{PagesFetched: 1})

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	audit := auditPage(doc, page)
	if a.cfg.CheckLinks {
		all := append(append([]string{}, audit.Links.Internal...), audit.Links.External...)
		audit.Links.Broken = a.links.check(ctx, all)
		audit.Links.Checked = true
	}
	finishAudit(audit)

	article, err := extractArticle(page.body, page.url)
	if err != nil {
		return nil, err
	}

	title := audit.Title.Text
	if title == "" {
		title = article.Title
	}
	content := a.AnalyzeContent(ctx, textmetrics.ContentDocument{
		Text:          article.Markdown,
		Title:         title,
		TargetKeyword: keyword,
	})

	// The content report may be shared through the cache
	report := *content
	report.Page = audit
	report.Article = article

	a.logger.Info("page analyzed",
		zap.String("url", audit.URL),
		zap.Float64("page_score", audit.Score),
		zap.Int("seo_score", report.SeoScore.Score),
		zap.Int("broken_links", len(audit.Links.Broken)))
	return &report, nil
}

func fetchOutcome(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "circuit_open"
	case errors.Is(err, ErrUnsupportedContent):
		return "unsupported"
	default:
		return "error"
	}
}

// CacheStats returns statistics about the caches
func (a *Analyzer) CacheStats() CacheStats {
	var current stats.MonthlyStats
	if a.stats != nil {
		current = a.stats.CurrentStats()
	}

	a.cacheMutex.RLock()
	entries := len(a.cache)
	a.cacheMutex.RUnlock()

	return CacheStats{
		ContentEntries:     entries,
		LinkEntries:        a.links.len(),
		ContentCacheHits:   current.ContentCacheHits,
		ContentCacheMisses: current.ContentCacheMisses,
		LinkCacheHits:      current.LinkCacheHits,
		LinkCacheMisses:    current.LinkCacheMisses,
		PagesFetched:       current.PagesFetched,
		FetchFailures:      current.FetchFailures,
		ContentCacheTTL:    a.cfg.CacheTTL,
		LinkCacheTTL:       a.cfg.LinkCacheTTL,
	}
}

// ClearCache empties the content and link caches
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	a.cache = make(map[string]cacheEntry)
	a.cacheMutex.Unlock()

	a.links.clear()
}

// Shutdown stops the cleanup loop and flushes statistics
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}
	a.stopOnce.Do(func() {
		close(a.done)
	})

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}
	return nil
}
