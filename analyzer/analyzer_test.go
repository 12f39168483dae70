package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/stats"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

func newTestAnalyzer(t *testing.T, tweak func(*config.AnalyzerConfig)) (*Analyzer, *stats.Storage) {
	t.Helper()

	storage, err := stats.NewStorage(t.TempDir(), nil)
	require.NoError(t, err)

	cfg := config.Default().Analyzer
	if tweak != nil {
		tweak(&cfg)
	}
	a := New(cfg, Options{Stats: storage})
	t.Cleanup(func() { a.Shutdown() })
	return a, storage
}

var sampleDoc = textmetrics.ContentDocument{
	Text:          "# Go testing\n\nGo testing is fun. Table tests keep cases short.\n\nRun them often.",
	Title:         "Go testing",
	TargetKeyword: "testing",
}

func TestAnalyzeContent(t *testing.T) {
	a, _ := newTestAnalyzer(t, nil)

	report := a.AnalyzeContent(context.Background(), sampleDoc)
	require.NotNil(t, report)

	assert.Equal(t, "Go testing", report.Title)
	assert.Equal(t, textmetrics.AnalyzeReadability(sampleDoc.Text), report.Readability)
	assert.Equal(t, textmetrics.CalculateSeoScore(sampleDoc.Text, "testing", "Go testing"), report.SeoScore)
	assert.Equal(t, textmetrics.GenerateRelatedKeywords("testing"), report.RelatedKeywords)
	assert.Contains(t, report.Keywords, "testing")
	assert.Equal(t, "Go testing", report.MetaTags.Title)
	assert.Nil(t, report.Language, "no detector configured")
	assert.Nil(t, report.Page)

	t.Run("RelatedFromTopKeyword", func(t *testing.T) {
		doc := textmetrics.ContentDocument{Text: "Marketing marketing marketing plans."}
		report := a.AnalyzeContent(context.Background(), doc)
		assert.Equal(t, textmetrics.GenerateRelatedKeywords("marketing"), report.RelatedKeywords)
	})

	t.Run("Empty", func(t *testing.T) {
		report := a.AnalyzeContent(context.Background(), textmetrics.ContentDocument{})
		assert.Equal(t, 0, report.SeoScore.Score)
		assert.Empty(t, report.Keywords)
		assert.Empty(t, report.RelatedKeywords)
	})
}

func TestContentCache(t *testing.T) {
	a, _ := newTestAnalyzer(t, func(cfg *config.AnalyzerConfig) {
		cfg.CacheTTL = time.Minute
	})
	now := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	first := a.AnalyzeContent(context.Background(), sampleDoc)
	second := a.AnalyzeContent(context.Background(), sampleDoc)
	assert.Same(t, first, second)

	other := sampleDoc
	other.TargetKeyword = "tests"
	assert.NotSame(t, first, a.AnalyzeContent(context.Background(), other))

	cs := a.CacheStats()
	assert.Equal(t, 2, cs.ContentEntries)
	assert.Equal(t, 1, cs.ContentCacheHits)
	assert.Equal(t, 2, cs.ContentCacheMisses)
	assert.Equal(t, time.Minute, cs.ContentCacheTTL)

	t.Run("Expiry", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		assert.NotSame(t, first, a.AnalyzeContent(context.Background(), sampleDoc))

		a.cleanup()
		assert.Equal(t, 1, a.CacheStats().ContentEntries)
	})

	t.Run("Clear", func(t *testing.T) {
		a.ClearCache()
		assert.Equal(t, 0, a.CacheStats().ContentEntries)
	})
}

func TestConcurrentCacheAccess(t *testing.T) {
	a, _ := newTestAnalyzer(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := sampleDoc
			doc.TargetKeyword = fmt.Sprintf("kw%d", i%5)
			a.AnalyzeContent(context.Background(), doc)
			a.CacheStats()
		}()
	}
	wg.Wait()

	cs := a.CacheStats()
	assert.Equal(t, 5, cs.ContentEntries)
	assert.Equal(t, 50, cs.ContentCacheHits+cs.ContentCacheMisses)
}

func TestEvict(t *testing.T) {
	now := time.Now()
	entries := map[string]time.Time{
		"expired": now.Add(-time.Hour),
		"old":     now.Add(-3 * time.Minute),
		"mid":     now.Add(-2 * time.Minute),
		"new":     now.Add(-time.Minute),
	}

	evict(entries, now, 30*time.Minute, 2, func(ts time.Time) time.Time { return ts })

	assert.Len(t, entries, 2)
	assert.Contains(t, entries, "mid")
	assert.Contains(t, entries, "new")
}

const articleParagraph = `<p>Go testing rewards small, focused functions. Table-driven tests and subtests
keep each case readable, and the standard library ships everything needed to get started
without extra tooling, which makes testing a habit rather than a chore for most teams.</p>`

func testSite(t *testing.T, external string) *httptest.Server {
	t.Helper()

	page := `<!DOCTYPE html>
<html><head>
<title>Go Testing Guide for Busy Engineers Today</title>
<meta name="description" content="short">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head><body>
<article>
<h1>Go Testing Guide</h1>` + strings.Repeat(articleParagraph, 4) + `
<h2>Table tests</h2>` + strings.Repeat(articleParagraph, 2) + `
<img src="/diagram.png" alt="diagram"><img src="/photo.png">
<a href="/about">About</a>
<a href="/missing#part">Missing</a>
<a href="/about">About again</a>
<a href="` + external + `">Elsewhere</a>
<a href="mailto:team@example.com">Mail</a>
<a href="#top">Top</a>
</article>
</body></html>`

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, page)
		case "/about":
			w.WriteHeader(http.StatusOK)
		case "/data.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"ok":true}`)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAnalyzeURL(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()
	// Same machine, different host name, so the link counts as external
	external := strings.Replace(other.URL, "127.0.0.1", "localhost", 1) + "/ref"

	site := testSite(t, external)
	defer site.Close()

	a, storage := newTestAnalyzer(t, func(cfg *config.AnalyzerConfig) {
		cfg.CheckLinks = true
	})

	report, err := a.AnalyzeURL(context.Background(), site.URL+"/", "go testing")
	require.NoError(t, err)

	page := report.Page
	require.NotNil(t, page)
	assert.Equal(t, "Go Testing Guide for Busy Engineers Today", page.Title.Text)
	assert.Equal(t, 100, page.Title.Score)
	assert.Equal(t, []string{"Go Testing Guide"}, page.Headings.H1)
	assert.Equal(t, 2, page.Images.Total)
	assert.Equal(t, 1, page.Images.WithAlt)
	assert.Equal(t, []string{"/photo.png"}, page.Images.MissingAlt)
	assert.True(t, page.Performance.MobileOptimized)

	assert.Equal(t, []string{site.URL + "/about", site.URL + "/missing"}, page.Links.Internal)
	assert.Equal(t, []string{external}, page.Links.External)
	assert.True(t, page.Links.Checked)
	assert.Equal(t, []string{site.URL + "/missing"}, page.Links.Broken)
	assert.Contains(t, page.Recommendations, "Meta description is too short (5 characters, aim for 120-160)")
	assert.Contains(t, page.Recommendations, "Fix broken links: found 1 broken link(s)")
	assert.Greater(t, page.Score, 0.0)

	assert.Equal(t, "Go Testing Guide for Busy Engineers Today", report.Title)
	assert.Equal(t, "go testing", report.TargetKeyword)
	require.NotNil(t, report.Article)
	assert.Contains(t, report.Article.Markdown, "subtests")
	assert.Greater(t, report.Readability.WordCount, 100)

	current := storage.CurrentStats()
	assert.Equal(t, 1, current.PagesFetched)
	assert.Equal(t, 3, current.LinkCacheMisses)

	t.Run("LinkCache", func(t *testing.T) {
		_, err := a.AnalyzeURL(context.Background(), site.URL+"/", "go testing")
		require.NoError(t, err)
		assert.Equal(t, 3, storage.CurrentStats().LinkCacheHits)
		assert.Equal(t, 3, a.CacheStats().LinkEntries)
	})
}

func TestAnalyzeURLErrors(t *testing.T) {
	site := testSite(t, "https://example.com")
	defer site.Close()

	a, storage := newTestAnalyzer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"InvalidURL", "ftp://example.com/file", ErrInvalidURL},
		{"RelativeURL", "/just/a/path", ErrInvalidURL},
		{"NotFound", site.URL + "/nope", ErrFetchFailed},
		{"NotHTML", site.URL + "/data.json", ErrUnsupportedContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AnalyzeURL(ctx, tt.url, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 2, storage.CurrentStats().FetchFailures)

	t.Run("TooLarge", func(t *testing.T) {
		small, _ := newTestAnalyzer(t, func(cfg *config.AnalyzerConfig) {
			cfg.MaxBodyBytes = 64
		})
		_, err := small.AnalyzeURL(ctx, site.URL+"/", "")
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}

func TestCircuitBreakerOpens(t *testing.T) {
	site := testSite(t, "https://example.com")
	defer site.Close()

	a, _ := newTestAnalyzer(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := a.AnalyzeURL(ctx, site.URL+"/broken", "")
		require.ErrorIs(t, err, ErrFetchFailed)
		require.False(t, errors.Is(err, ErrUnavailable))
	}

	_, err := a.AnalyzeURL(ctx, site.URL+"/", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	site := testSite(t, "https://example.com")
	defer site.Close()

	a, _ := newTestAnalyzer(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := a.AnalyzeURL(ctx, site.URL+"/nope", "")
		require.ErrorIs(t, err, ErrFetchFailed)
	}

	_, err := a.AnalyzeURL(ctx, site.URL+"/", "")
	assert.NoError(t, err)
}

func TestAuditPerformance(t *testing.T) {
	page := &fetchedPage{size: 3 << 20, loadTime: 1200 * time.Millisecond}

	perf := auditPerformance(page, "")
	assert.Equal(t, SeverityMajor, perf.PageSizeSeverity)
	assert.Equal(t, SeverityMinor, perf.LoadTimeSeverity)
	assert.False(t, perf.MobileOptimized)
	assert.Equal(t, 100-30-10-20, perf.Score)

	perf = auditPerformance(&fetchedPage{size: 1024}, "width=device-width")
	assert.Equal(t, SeverityGood, perf.PageSizeSeverity)
	assert.Equal(t, 100, perf.Score)
}
