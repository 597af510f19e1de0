// Package feed renders merged article records as RSS 2.0 and Atom 1.0
// documents.
package feed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gorilla/feeds"

	"github.com/lepinkainen/feed-weave/pkg/filesystem"
)

// Generator renders one source's record list into both feed formats.
// The run timestamp is pinned at construction so rendering the same
// records twice produces byte-identical output.
type Generator struct {
	config Config
	now    time.Time
}

// NewGenerator creates a feed generator with a pinned run timestamp
func NewGenerator(config Config, now time.Time) *Generator {
	return &Generator{
		config: config,
		now:    now.UTC(),
	}
}

// validateItems enforces the renderer contract: every item must carry a
// link. A violation aborts rendering for this source only.
func validateItems(items []Item) error {
	for i, item := range items {
		if item.Link == "" {
			return fmt.Errorf("item %d has no link", i)
		}
	}
	return nil
}

// RSS renders the items as an RSS 2.0 document
func (g *Generator) RSS(items []Item) (string, error) {
	if err := validateItems(items); err != nil {
		return "", fmt.Errorf("invalid record list: %w", err)
	}

	rss := &feeds.Feed{
		Title:       g.config.Title,
		Link:        &feeds.Link{Href: g.config.Link},
		Description: g.config.Description,
		Created:     g.now,
	}

	for _, item := range items {
		feedItem := &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: StripHTML(item.Summary),
			Id:          item.Link,
			IsPermaLink: "true",
			Created:     item.Published,
		}
		rss.Items = append(rss.Items, feedItem)
	}

	out, err := rss.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to render RSS feed: %w", err)
	}
	return out, nil
}

// WriteFiles renders both formats and writes them to the given paths.
// Either path may be empty to skip that format.
func (g *Generator) WriteFiles(items []Item, rssPath, atomPath string) error {
	if rssPath != "" {
		rss, err := g.RSS(items)
		if err != nil {
			return err
		}
		if err := writeDocument(rssPath, rss); err != nil {
			return err
		}
		slog.Info("Feed saved", "format", "rss", "path", rssPath, "items", len(items))
	}

	if atomPath != "" {
		atom, err := g.Atom(items)
		if err != nil {
			return err
		}
		if err := writeDocument(atomPath, atom); err != nil {
			return err
		}
		slog.Info("Feed saved", "format", "atom", "path", atomPath, "items", len(items))
	}

	return nil
}

// writeDocument writes a rendered feed document, creating the output
// directory when needed.
func writeDocument(path, content string) error {
	if err := filesystem.EnsureDirectoryExists(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write feed file %s: %w", path, err)
	}
	return nil
}
