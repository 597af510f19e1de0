// Package opengraph backfills missing record fields from the article
// pages' own metadata (OpenGraph and standard meta tags), with a sqlite
// cache so article pages are fetched at most once per cache period.
package opengraph

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/fetch"
)

// Enricher fills missing summaries and dates on merged records
type Enricher struct {
	client *fetch.Client
	db     *Database
}

// NewEnricher creates an enricher. db may be nil to disable caching.
func NewEnricher(client *fetch.Client, db *Database) *Enricher {
	return &Enricher{
		client: client,
		db:     db,
	}
}

// Enrich backfills Summary and Published on records missing them. Every
// failure is soft: the record is returned unchanged and the run
// continues.
func (e *Enricher) Enrich(ctx context.Context, items []feed.Item) []feed.Item {
	for i := range items {
		if items[i].Summary != "" && !items[i].Published.IsZero() {
			continue
		}

		data := e.lookup(ctx, items[i].Link)
		if data == nil {
			continue
		}

		if items[i].Summary == "" && data.Description != "" {
			items[i].Summary = data.Description
		}
		if items[i].Published.IsZero() && !data.Published.IsZero() {
			items[i].Published = data.Published
		}
	}
	return items
}

// lookup returns metadata for an article URL, from cache when possible
func (e *Enricher) lookup(ctx context.Context, url string) *Data {
	if e.db != nil {
		cached, hit, err := e.db.GetCached(url)
		if err != nil {
			slog.Warn("Error reading enrichment cache", "url", url, "error", err)
		}
		if hit {
			return cached
		}
	}

	data, err := e.fetchMetadata(ctx, url)
	success := err == nil
	if err != nil {
		slog.Debug("Failed to fetch article metadata", "url", url, "error", err)
		now := time.Now()
		data = &Data{
			URL:       url,
			FetchedAt: now,
			ExpiresAt: now.Add(FailureCacheHours * time.Hour),
		}
	}

	if e.db != nil {
		if err := e.db.Save(data, success); err != nil {
			slog.Warn("Failed to cache enrichment data", "url", url, "error", err)
		}
	}

	if !success {
		return nil
	}
	return data
}

// fetchMetadata fetches the article page and extracts its description
// and publish date from meta tags.
func (e *Enricher) fetchMetadata(ctx context.Context, url string) (*Data, error) {
	page, err := e.client.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	data := &Data{
		URL:       url,
		FetchedAt: now,
		ExpiresAt: now.Add(DefaultCacheHours * time.Hour),
	}

	data.Description = feed.CleanText(firstMetaContent(doc,
		`meta[property='og:description']`,
		`meta[name='description']`))

	if raw := firstMetaContent(doc,
		`meta[property='article:published_time']`,
		`meta[name='date']`); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			data.Published = t.UTC()
		}
	}

	return data, nil
}

// firstMetaContent returns the content attribute of the first matching
// meta selector with a non-empty value.
func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}
