package pipeline

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/lepinkainen/feed-weave/internal/extract"
	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/urlutils"
)

// Merger reconciles extractor candidates into the final record list for
// one source: dedup by canonical link, structured-data precedence with
// heuristic backfill, URL filtering and stable ordering.
type Merger struct {
	include  []*regexp.Regexp
	exclude  []*regexp.Regexp
	maxItems int
}

// NewMerger creates a merger with compiled URL filters. maxItems <= 0
// means no cap.
func NewMerger(include, exclude []*regexp.Regexp, maxItems int) *Merger {
	return &Merger{
		include:  include,
		exclude:  exclude,
		maxItems: maxItems,
	}
}

// mergedRecord tracks one deduplicated article during the merge pass
type mergedRecord struct {
	item       feed.Item
	origin     extract.Origin
	discovered int
	sawOrigins [2]bool
}

// Merge combines candidates (structured first, then heuristic) into the
// final ordered record list and reports which extraction strategies
// contributed to it. The function is pure: merging the same candidate
// sequence again yields an identical result.
func (m *Merger) Merge(candidates []extract.Candidate) ([]feed.Item, Mode) {
	merged := make(map[string]*mergedRecord)
	var order []string

	for _, c := range candidates {
		if c.Link == "" {
			// A record with no link cannot be identified or emitted
			continue
		}
		if !m.allowed(c.Link) {
			slog.Debug("Record filtered out", "link", c.Link)
			continue
		}

		key := urlutils.CanonicalKey(c.Link)
		existing, ok := merged[key]
		if !ok {
			merged[key] = &mergedRecord{
				item: feed.Item{
					Title:     c.Title,
					Link:      c.Link,
					Summary:   c.Summary,
					Published: c.Published,
				},
				origin:     c.Origin,
				discovered: len(order),
			}
			merged[key].sawOrigins[c.Origin] = true
			order = append(order, key)
			continue
		}

		existing.sawOrigins[c.Origin] = true
		mergeFields(existing, c)
	}

	records := make([]*mergedRecord, 0, len(merged))
	for _, key := range order {
		records = append(records, merged[key])
	}

	sortRecords(records)

	if m.maxItems > 0 && len(records) > m.maxItems {
		records = records[:m.maxItems]
	}

	items := make([]feed.Item, 0, len(records))
	sawStructured, sawHeuristic := false, false
	for _, r := range records {
		r.item.Title = fallbackTitle(r.item)
		items = append(items, r.item)
		sawStructured = sawStructured || r.sawOrigins[extract.OriginStructured]
		sawHeuristic = sawHeuristic || r.sawOrigins[extract.OriginHeuristic]
	}

	return items, modeFor(sawStructured, sawHeuristic)
}

// modeFor maps the contributing strategies to the reported mode
func modeFor(structured, heuristic bool) Mode {
	switch {
	case structured && heuristic:
		return ModeMixed
	case structured:
		return ModeStructured
	case heuristic:
		return ModeHeuristic
	default:
		return ModeEmpty
	}
}

// mergeFields folds a later candidate into an existing record.
// Structured-data fields win over heuristic ones; missing fields are
// backfilled from whichever side has them.
func mergeFields(existing *mergedRecord, c extract.Candidate) {
	structuredOverHeuristic := c.Origin == extract.OriginStructured && existing.origin == extract.OriginHeuristic

	if c.Title != "" {
		slugTitle := urlutils.SlugToTitle(existing.item.Link)
		switch {
		case existing.item.Title == "" || existing.item.Title == slugTitle:
			// A slug-derived title is a placeholder, any real title beats it
			existing.item.Title = c.Title
		case structuredOverHeuristic:
			existing.item.Title = c.Title
		}
	}

	if c.Summary != "" && (existing.item.Summary == "" || structuredOverHeuristic) {
		existing.item.Summary = c.Summary
	}
	if !c.Published.IsZero() && (existing.item.Published.IsZero() || structuredOverHeuristic) {
		existing.item.Published = c.Published
	}
	if structuredOverHeuristic {
		existing.origin = extract.OriginStructured
	}
}

// allowed applies the include/exclude URL filters to the full absolute
// link. An empty include list admits everything not excluded.
func (m *Merger) allowed(link string) bool {
	if len(m.include) > 0 {
		matched := false
		for _, re := range m.include {
			if re.MatchString(link) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, re := range m.exclude {
		if re.MatchString(link) {
			return false
		}
	}
	return true
}

// sortRecords orders dated records newest-first, then undated records
// in discovery order. The sort is stable so equal dates keep discovery
// order too.
func sortRecords(records []*mergedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		aDated, bDated := !a.item.Published.IsZero(), !b.item.Published.IsZero()
		if aDated != bDated {
			return aDated
		}
		if aDated && !a.item.Published.Equal(b.item.Published) {
			return a.item.Published.After(b.item.Published)
		}
		return a.discovered < b.discovered
	})
}

// fallbackTitle guarantees every emitted record has a title: slug, then
// host+path, then the link itself. Information is never dropped for
// want of a title.
func fallbackTitle(item feed.Item) string {
	if item.Title != "" {
		return item.Title
	}
	if slug := urlutils.SlugToTitle(item.Link); slug != "" {
		return slug
	}
	if hp := urlutils.HostAndPath(item.Link); hp != "" {
		return hp
	}
	return item.Link
}
