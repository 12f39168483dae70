package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrFetchFailed is returned when a page cannot be downloaded
	ErrFetchFailed = errors.New("failed to fetch page")
	// ErrUnsupportedContent is returned for responses that are not HTML
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrUnavailable is returned while the fetch circuit breaker is open
	ErrUnavailable = errors.New("page fetching temporarily unavailable")
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs
	ErrInvalidURL = errors.New("invalid page url")

	// errUpstream marks failures that count against the circuit breaker
	errUpstream = errors.New("upstream failure")
)

// fetchedPage is a downloaded HTML document
type fetchedPage struct {
	url      *url.URL // final URL after redirects
	body     []byte
	size     int // bytes, from Content-Length when present
	loadTime time.Duration
}

type fetcher struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	maxBody   int64
	userAgent string
	logger    *zap.Logger
}

func newFetcher(client *http.Client, maxBody int64, userAgent string, logger *zap.Logger) *fetcher {
	f := &fetcher{
		client:    client,
		maxBody:   maxBody,
		userAgent: userAgent,
		logger:    logger,
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "page-fetch",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, errUpstream)
		},
	})
	return f
}

// parsePageURL accepts only absolute http and https URLs
func parsePageURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return u, nil
}

// fetch downloads an HTML page through the circuit breaker
func (f *fetcher) fetch(ctx context.Context, pageURL *url.URL) (*fetchedPage, error) {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.do(ctx, pageURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return result.(*fetchedPage), nil
}

func (f *fetcher) do(ctx context.Context, pageURL *url.URL) (*fetchedPage, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w: %w", ErrFetchFailed, errUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: %w: status %d", ErrFetchFailed, errUpstream, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w: %w", ErrFetchFailed, errUpstream, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: page larger than %d bytes", ErrFetchFailed, f.maxBody)
	}
	if !isHTML(resp.Header.Get("Content-Type"), body) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, resp.Header.Get("Content-Type"))
	}

	size := len(body)
	if resp.ContentLength > 0 {
		size = int(resp.ContentLength)
	}

	return &fetchedPage{
		url:      resp.Request.URL,
		body:     body,
		size:     size,
		loadTime: time.Since(start),
	}, nil
}

// isHTML trusts the declared media type and sniffs the body when none is sent
func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// state reports the breaker state for metrics
func (f *fetcher) state() gobreaker.State {
	return f.breaker.State()
}
