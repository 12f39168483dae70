package analyzer

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Link checks share one deadline so a slow site cannot stall the analysis
const (
	linkCheckBudget  = 15 * time.Second
	linkCheckTimeout = 5 * time.Second
)

type linkCacheEntry struct {
	accessible bool
	timestamp  time.Time
}

// linkChecker tests link reachability with a bounded number of HEAD requests
// in flight and remembers the outcome per URL.
type linkChecker struct {
	client      *http.Client
	userAgent   string
	concurrency int
	ttl         time.Duration
	maxEntries  int

	mu    sync.RWMutex
	cache map[string]linkCacheEntry

	onLookup func(hit bool)
}

func newLinkChecker(client *http.Client, userAgent string, concurrency int, ttl time.Duration) *linkChecker {
	return &linkChecker{
		client: &http.Client{
			Transport: client.Transport,
			Timeout:   linkCheckTimeout,
		},
		userAgent:   userAgent,
		concurrency: concurrency,
		ttl:         ttl,
		maxEntries:  10000,
		cache:       make(map[string]linkCacheEntry),
		onLookup:    func(bool) {},
	}
}

// check returns the links from urls that could not be reached, sorted
func (lc *linkChecker) check(ctx context.Context, urls []string) []string {
	ctx, cancel := context.WithTimeout(ctx, linkCheckBudget)
	defer cancel()

	var (
		mu     sync.Mutex
		broken []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lc.concurrency)
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if !lc.accessible(ctx, u) {
				mu.Lock()
				broken = append(broken, u)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	sort.Strings(broken)
	return broken
}

func (lc *linkChecker) accessible(ctx context.Context, u string) bool {
	key := cacheKey(u)

	lc.mu.RLock()
	entry, found := lc.cache[key]
	lc.mu.RUnlock()
	if found && time.Since(entry.timestamp) < lc.ttl {
		lc.onLookup(true)
		return entry.accessible
	}
	lc.onLookup(false)

	ok := lc.head(ctx, u)
	// A check cut short by the deadline says nothing about the link
	if ctx.Err() != nil {
		return true
	}

	lc.mu.Lock()
	lc.cache[key] = linkCacheEntry{accessible: ok, timestamp: time.Now()}
	lc.mu.Unlock()
	return ok
}

func (lc *linkChecker) head(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", lc.userAgent)

	resp, err := lc.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	// Some servers refuse HEAD outright
	if resp.StatusCode == http.StatusMethodNotAllowed {
		return lc.get(ctx, u)
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func (lc *linkChecker) get(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", lc.userAgent)

	resp, err := lc.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func (lc *linkChecker) len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.cache)
}

func (lc *linkChecker) clear() {
	lc.mu.Lock()
	lc.cache = make(map[string]linkCacheEntry)
	lc.mu.Unlock()
}

// prune drops expired entries, then the oldest ones beyond maxEntries
func (lc *linkChecker) prune(now time.Time) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	evict(lc.cache, now, lc.ttl, lc.maxEntries, func(e linkCacheEntry) time.Time { return e.timestamp })
}
