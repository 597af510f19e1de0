// Package pipeline runs the per-source extraction and rendering flow:
// fetch -> extract -> merge -> render. Failures are scoped to a single
// source; one broken page never stops the others.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lepinkainen/feed-weave/internal/extract"
	"github.com/lepinkainen/feed-weave/pkg/config"
	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/urlutils"
)

// Mode reports which extraction strategies produced a source's records
type Mode string

// Extraction modes, reported per source after each run
const (
	ModeStructured Mode = "structured"
	ModeHeuristic  Mode = "heuristic"
	ModeMixed      Mode = "mixed"
	ModeEmpty      Mode = "empty"
)

// Status is the per-source result signal handed to the orchestration
// layer after a run.
type Status struct {
	SourceID     string
	RecordsFound int
	Mode         Mode
	Err          error
}

// Failed reports whether the source's run ended in a source-scoped
// failure.
func (s Status) Failed() bool {
	return s.Err != nil
}

// PageFetcher retrieves the raw HTML of a listing page. Fetching is a
// collaborator concern; the pipeline core only consumes the result.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Enricher backfills missing optional fields on merged records from an
// external signal, e.g. the article pages' own metadata.
type Enricher interface {
	Enrich(ctx context.Context, items []feed.Item) []feed.Item
}

// Pipeline processes configured sources into rendered feed documents
type Pipeline struct {
	fetcher  PageFetcher
	enricher Enricher
	now      time.Time
	dryRun   bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithEnricher enables record enrichment for sources that request it
func WithEnricher(e Enricher) Option {
	return func(p *Pipeline) { p.enricher = e }
}

// WithDryRun extracts and merges but skips writing feed files
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// New creates a pipeline. The run timestamp is pinned here so every
// source rendered in this run carries the same feed-level times.
func New(fetcher PageFetcher, now time.Time, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: fetcher,
		now:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every source sequentially and returns one status per
// source, in input order.
func (p *Pipeline) Run(ctx context.Context, sources []*config.Source) []Status {
	statuses := make([]Status, 0, len(sources))
	for _, source := range sources {
		status := p.ProcessSource(ctx, source)
		if status.Failed() {
			slog.Error("Source failed", "source", source.ID, "error", status.Err)
		} else {
			slog.Info("Source processed", "source", source.ID,
				"records", status.RecordsFound, "mode", string(status.Mode))
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// ProcessSource runs the full flow for one source
func (p *Pipeline) ProcessSource(ctx context.Context, source *config.Source) Status {
	html, err := p.fetcher.FetchPage(ctx, source.URL)
	if err != nil {
		return Status{SourceID: source.ID, Err: fmt.Errorf("fetch failed: %w", err)}
	}
	return p.ProcessHTML(ctx, source, html)
}

// ProcessHTML runs extraction, merge and rendering over already-fetched
// HTML. Split out so a local HTML file can be piped through the same
// flow for debugging.
func (p *Pipeline) ProcessHTML(ctx context.Context, source *config.Source, html string) Status {
	items, mode, err := p.ExtractRecords(source, html)
	if err != nil {
		return Status{SourceID: source.ID, Err: err}
	}

	if source.Enrich && p.enricher != nil {
		items = p.enricher.Enrich(ctx, items)
	}

	if len(items) == 0 {
		slog.Warn("No records extracted, rendering empty feeds", "source", source.ID)
	}

	if !p.dryRun {
		generator := feed.NewGenerator(feed.Config{
			Title:       source.FeedTitle,
			Link:        source.SiteURL,
			Description: source.FeedDescription,
		}, p.now)

		if err := generator.WriteFiles(items, source.OutputRSS, source.OutputAtom); err != nil {
			return Status{SourceID: source.ID, Err: fmt.Errorf("render failed: %w", err)}
		}
	}

	return Status{
		SourceID:     source.ID,
		RecordsFound: len(items),
		Mode:         mode,
	}
}

// ExtractRecords runs the extraction strategies in order and merges
// their candidates into the final record list.
func (p *Pipeline) ExtractRecords(source *config.Source, html string) ([]feed.Item, Mode, error) {
	doc, err := extract.ParseDocument(html)
	if err != nil {
		return nil, ModeEmpty, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var candidates []extract.Candidate
	if source.StructuredDataEnabled() {
		candidates = extract.StructuredData(doc, source.URL)
		slog.Debug("Structured data pass done", "source", source.ID, "candidates", len(candidates))
	}

	// Only fully populated structured candidates are withheld from the
	// anchor scan. A candidate still missing its title, summary or date
	// needs a heuristic counterpart for the merger to backfill from.
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Complete() && c.Summary != "" && !c.Published.IsZero() {
			known[urlutils.CanonicalKey(c.Link)] = true
		}
	}

	heuristic := extract.Links(doc, source.URL, source.LinkScopeSelectors, known)
	slog.Debug("Link heuristic pass done", "source", source.ID, "candidates", len(heuristic))
	candidates = append(candidates, heuristic...)

	merger := NewMerger(source.Include, source.Exclude, source.MaxItems)
	items, mode := merger.Merge(candidates)
	return items, mode, nil
}

// Summarize logs the per-source outcome table and returns the number of
// failed sources.
func Summarize(statuses []Status) int {
	failed := 0
	for _, status := range statuses {
		switch {
		case status.Failed():
			failed++
			slog.Error("Run summary", "source", status.SourceID, "result", "failed", "error", status.Err)
		case status.Mode == ModeEmpty:
			slog.Warn("Run summary", "source", status.SourceID, "result", "degraded", "records", 0)
		default:
			slog.Info("Run summary", "source", status.SourceID, "result", "success",
				"records", status.RecordsFound, "mode", string(status.Mode))
		}
	}
	return failed
}
