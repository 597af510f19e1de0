package pipeline

import (
	"regexp"
	"testing"
	"time"

	"github.com/lepinkainen/feed-weave/internal/extract"
)

func structured(title, link string) extract.Candidate {
	return extract.Candidate{Title: title, Link: link, Origin: extract.OriginStructured}
}

func heuristic(title, link string) extract.Candidate {
	return extract.Candidate{Title: title, Link: link, Origin: extract.OriginHeuristic}
}

func compile(t *testing.T, patterns ...string) []*regexp.Regexp {
	t.Helper()
	var out []*regexp.Regexp
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func TestMergeStructuredFieldsTakePrecedence(t *testing.T) {
	s := structured("Real Title", "https://x.com/a")
	s.Summary = "Structured summary"
	h := heuristic("Anchor Text", "https://x.com/a")
	h.Summary = "Heuristic summary"
	h.Published = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	items, mode := NewMerger(nil, nil, 0).Merge([]extract.Candidate{s, h})

	if len(items) != 1 {
		t.Fatalf("got %d items, expected 1 merged record", len(items))
	}
	item := items[0]
	if item.Title != "Real Title" {
		t.Errorf("title = %q, structured title should win", item.Title)
	}
	if item.Summary != "Structured summary" {
		t.Errorf("summary = %q, structured summary should win", item.Summary)
	}
	if item.Published.IsZero() {
		t.Error("missing structured date should be backfilled from heuristic side")
	}
	if mode != ModeMixed {
		t.Errorf("mode = %q, expected mixed", mode)
	}
}

func TestMergeUpgradesSlugTitle(t *testing.T) {
	// Structured candidate had no headline, so its title came up empty;
	// the anchor text should replace the slug placeholder.
	s := structured("", "https://x.com/blog/my-post")
	h := heuristic("A Proper Headline", "https://x.com/blog/my-post")

	items, _ := NewMerger(nil, nil, 0).Merge([]extract.Candidate{s, h})

	if len(items) != 1 {
		t.Fatalf("got %d items, expected 1", len(items))
	}
	if items[0].Title != "A Proper Headline" {
		t.Errorf("title = %q, expected the heuristic headline", items[0].Title)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	candidates := []extract.Candidate{
		structured("A", "https://x.com/a"),
		heuristic("B", "https://x.com/b"),
	}
	doubled := append(append([]extract.Candidate{}, candidates...), candidates...)

	m := NewMerger(nil, nil, 0)
	once, _ := m.Merge(candidates)
	twice, _ := m.Merge(doubled)

	if len(once) != len(twice) {
		t.Fatalf("duplicate growth: %d vs %d items", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMergeDeduplicatesNormalizedLinks(t *testing.T) {
	items, _ := NewMerger(nil, nil, 0).Merge([]extract.Candidate{
		structured("A", "https://x.com/a"),
		heuristic("A slash", "https://x.com/a/"),
	})

	if len(items) != 1 {
		t.Fatalf("got %d items, trailing-slash variants must collapse", len(items))
	}
}

func TestMergeFiltering(t *testing.T) {
	m := NewMerger(compile(t, "/blog/"), compile(t, "/blog/tag/"), 0)

	items, _ := m.Merge([]extract.Candidate{
		heuristic("Tagged", "https://x.com/blog/tag/foo"),
		heuristic("Post", "https://x.com/blog/foo"),
		heuristic("About", "https://x.com/about"),
	})

	if len(items) != 1 {
		t.Fatalf("got %d items, expected 1 after filtering", len(items))
	}
	if items[0].Link != "https://x.com/blog/foo" {
		t.Errorf("link = %q", items[0].Link)
	}
}

func TestMergeFallbackTitles(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "slug derived",
			link:     "https://x.com/blog/my-great-post",
			expected: "My Great Post",
		},
		{
			name:     "host and path when slug degenerate",
			link:     "https://x.com/%2F/",
			expected: "x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _ := NewMerger(nil, nil, 0).Merge([]extract.Candidate{heuristic("", tt.link)})
			if len(items) != 1 {
				t.Fatalf("got %d items, expected 1 (records are never dropped for missing titles)", len(items))
			}
			if items[0].Title == "" {
				t.Error("emitted record must always carry a title")
			}
		})
	}
}

func TestMergeOrdering(t *testing.T) {
	older := structured("Older", "https://x.com/older")
	older.Published = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := structured("Newer", "https://x.com/newer")
	newer.Published = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	undatedFirst := heuristic("Undated First", "https://x.com/u1")
	undatedSecond := heuristic("Undated Second", "https://x.com/u2")

	items, _ := NewMerger(nil, nil, 0).Merge([]extract.Candidate{
		older, undatedFirst, newer, undatedSecond,
	})

	want := []string{"Newer", "Older", "Undated First", "Undated Second"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, expected %d", len(items), len(want))
	}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("position %d = %q, expected %q", i, items[i].Title, title)
		}
	}
}

func TestMergeMaxItemsCap(t *testing.T) {
	items, _ := NewMerger(nil, nil, 2).Merge([]extract.Candidate{
		heuristic("A", "https://x.com/a"),
		heuristic("B", "https://x.com/b"),
		heuristic("C", "https://x.com/c"),
	})

	if len(items) != 2 {
		t.Fatalf("got %d items, expected cap of 2", len(items))
	}
}

func TestMergeModes(t *testing.T) {
	m := NewMerger(nil, nil, 0)

	if _, mode := m.Merge([]extract.Candidate{structured("A", "https://x.com/a")}); mode != ModeStructured {
		t.Errorf("mode = %q, expected structured", mode)
	}
	if _, mode := m.Merge([]extract.Candidate{heuristic("B", "https://x.com/b")}); mode != ModeHeuristic {
		t.Errorf("mode = %q, expected heuristic", mode)
	}
	if _, mode := m.Merge(nil); mode != ModeEmpty {
		t.Errorf("mode = %q, expected empty", mode)
	}
}
