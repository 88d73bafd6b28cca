package db

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/framecraft/internal/types"
)

// ComponentTemplate represents a stored component_templates record
type ComponentTemplate struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Category       string          `json:"category"`
	Description    *string         `json:"description,omitempty"`
	HTMLTemplate   string          `json:"html_template"`
	CSSTemplate    string          `json:"css_template"`
	JSTemplate     *string         `json:"js_template,omitempty"`
	EditableFields types.Variables `json:"editable_fields"`
	ThumbnailURL   *string         `json:"thumbnail_url,omitempty"`
	IsPublished    bool            `json:"is_published"`
	Tags           []string        `json:"tags"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TemplateFilters holds optional filters for listing templates
type TemplateFilters struct {
	Category      string
	PublishedOnly bool
	Limit         int
}

// CachedFile represents a cached raw file body
type CachedFile struct {
	URL         string     `json:"url"`
	Content     *string    `json:"-"` // Don't serialize (large)
	ContentHash *string    `json:"content_hash,omitempty"`
	HTTPStatus  *int       `json:"http_status,omitempty"`
	FetchStatus string     `json:"fetch_status"` // 'success', 'error', 'not_found', 'blocked'
	FetchedAt   time.Time  `json:"fetched_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// FetchStatus constants for cached files
const (
	FetchStatusSuccess  = "success"   // File fetched successfully
	FetchStatusError    = "error"     // Generic error (may retry)
	FetchStatusNotFound = "not_found" // 404/410
	FetchStatusBlocked  = "blocked"   // 403/429 - rate limited or forbidden
)

// DefaultFileCacheTTL is the default time-to-live for cached file content
const DefaultFileCacheTTL = 10 * time.Minute

// FetchStatusFromHTTP determines fetch status from HTTP status code
func FetchStatusFromHTTP(status int) string {
	switch {
	case status >= 200 && status < 300:
		return FetchStatusSuccess
	case status == 404 || status == 410:
		return FetchStatusNotFound
	case status == 403 || status == 429:
		return FetchStatusBlocked
	default:
		return FetchStatusError
	}
}

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a template name to its URL slug
// Example: "Hero Banner #2" -> "hero-banner-2"
func Slugify(name string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// HashContent computes SHA-256 hash of content for change detection
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// IsExpired returns true if the cache entry has expired
func (f *CachedFile) IsExpired() bool {
	if f.ExpiresAt == nil {
		return false // No expiry set, never expires
	}
	return time.Now().After(*f.ExpiresAt)
}

// IsFresh returns true if the file was fetched within maxAge and has not expired
func (f *CachedFile) IsFresh(maxAge time.Duration) bool {
	return time.Since(f.FetchedAt) < maxAge && !f.IsExpired()
}
