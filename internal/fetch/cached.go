package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/framecraft/internal/db"
)

// Cache is the storage used by CachedFetcher. *db.DB satisfies it.
type Cache interface {
	GetFreshCachedFile(ctx context.Context, fileURL string, maxAge time.Duration) (*db.CachedFile, error)
	UpsertCachedFile(ctx context.Context, f *db.CachedFile) error
	ExpireCachedFile(ctx context.Context, fileURL string) error
}

// CachedFetcher wraps a Fetcher with database-backed caching.
type CachedFetcher struct {
	cache     Cache
	fetcher   Fetcher
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Fetcher   Fetcher
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  db.DefaultFileCacheTTL,
		SkipCache: false,
		Fetcher:   NewHTTPFetcher(nil),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache makes it a pass-through.
func NewCachedFetcher(cache Cache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Fetcher == nil {
		config.Fetcher = NewHTTPFetcher(nil)
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultFileCacheTTL
	}
	return &CachedFetcher{
		cache:     cache,
		fetcher:   config.Fetcher,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// Fetch retrieves a URL, using the cache if an entry is fresh.
// Otherwise it fetches and stores the result. Cache write failures are logged, not returned.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	useCache := !f.skipCache && f.cache != nil

	if useCache {
		cached, err := f.cache.GetFreshCachedFile(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check cache: %w", err)
		}
		if cached != nil {
			return &Result{
				URL:        cached.URL,
				Body:       derefString(cached.Content),
				StatusCode: derefInt(cached.HTTPStatus),
				FromCache:  true,
			}, nil
		}
	}

	result, err := f.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return result, err
	}

	if useCache {
		expiresAt := time.Now().Add(f.cacheTTL)
		entry := &db.CachedFile{
			URL:         urlStr,
			Content:     &result.Body,
			HTTPStatus:  &result.StatusCode,
			FetchStatus: db.FetchStatusFromHTTP(result.StatusCode),
			ExpiresAt:   &expiresAt,
		}
		if err := f.cache.UpsertCachedFile(ctx, entry); err != nil {
			log.Printf("[CACHE] failed to store %s: %v", urlStr, err)
		}
	}

	return result, nil
}

// InvalidateCache marks a cached file as stale, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.ExpireCachedFile(ctx, urlStr)
}

// Helper functions

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
