package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetCachedFile retrieves a cache entry by URL
func (db *DB) GetCachedFile(ctx context.Context, fileURL string) (*CachedFile, error) {
	var f CachedFile
	err := db.pool.QueryRow(ctx,
		`SELECT url, content, content_hash, http_status, fetch_status, fetched_at, expires_at
		 FROM file_cache WHERE url = $1`,
		fileURL,
	).Scan(&f.URL, &f.Content, &f.ContentHash, &f.HTTPStatus, &f.FetchStatus, &f.FetchedAt, &f.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached file: %w", err)
	}
	return &f, nil
}

// GetFreshCachedFile retrieves a cache entry only if it is fresh and was successful
func (db *DB) GetFreshCachedFile(ctx context.Context, fileURL string, maxAge time.Duration) (*CachedFile, error) {
	f, err := db.GetCachedFile(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	if f == nil || !f.IsFresh(maxAge) || f.FetchStatus != FetchStatusSuccess {
		return nil, nil
	}
	return f, nil
}

// UpsertCachedFile inserts or replaces a cache entry
func (db *DB) UpsertCachedFile(ctx context.Context, f *CachedFile) error {
	var contentHash *string
	if f.Content != nil {
		hash := HashContent(*f.Content)
		contentHash = &hash
	}

	expiresAt := f.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(DefaultFileCacheTTL)
		expiresAt = &t
	}

	fetchStatus := f.FetchStatus
	if fetchStatus == "" {
		fetchStatus = FetchStatusSuccess
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO file_cache (url, content, content_hash, http_status, fetch_status, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		 ON CONFLICT (url) DO UPDATE SET
		     content = $2,
		     content_hash = $3,
		     http_status = $4,
		     fetch_status = $5,
		     fetched_at = NOW(),
		     expires_at = $6
		 RETURNING fetched_at`,
		f.URL, f.Content, contentHash, f.HTTPStatus, fetchStatus, expiresAt,
	).Scan(&f.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached file: %w", err)
	}
	f.ContentHash = contentHash
	f.FetchStatus = fetchStatus
	f.ExpiresAt = expiresAt
	return nil
}

// ExpireCachedFile marks a cache entry as stale, forcing a re-fetch on next request.
func (db *DB) ExpireCachedFile(ctx context.Context, fileURL string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE file_cache SET expires_at = NOW() - INTERVAL '1 hour' WHERE url = $1`,
		fileURL,
	)
	if err != nil {
		return fmt.Errorf("failed to expire cached file: %w", err)
	}
	return nil
}
