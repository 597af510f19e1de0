package opengraph

import "time"

// Data holds the article-page metadata used to backfill records
type Data struct {
	URL         string
	Description string
	Published   time.Time
	FetchedAt   time.Time
	ExpiresAt   time.Time
}

// Cache lifetimes. Failures are cached with a short expiry so one bad
// article page is not re-fetched on every run.
const (
	DefaultCacheHours = 24
	FailureCacheHours = 1
)
