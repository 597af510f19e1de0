package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/feed-weave/pkg/testutil"
)

var testConfig = Config{
	Title:       "Example Blog",
	Link:        "https://example.com/blog",
	Description: "Articles from example.com",
}

var testNow = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

func testItems() []Item {
	return []Item{
		{
			Title:     "Post A",
			Link:      "https://example.com/blog/a",
			Summary:   "First post",
			Published: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title: "Post B",
			Link:  "https://example.com/blog/b",
		},
	}
}

func TestRSSContainsRequiredElements(t *testing.T) {
	g := NewGenerator(testConfig, testNow)

	out, err := g.RSS(testItems())
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}

	required := []string{
		"<rss",
		"<channel>",
		"<title>Example Blog</title>",
		"<link>https://example.com/blog</link>",
		"<description>Articles from example.com</description>",
		"<title>Post A</title>",
		"<link>https://example.com/blog/a</link>",
		"<description>First post</description>",
		"<title>Post B</title>",
		"<link>https://example.com/blog/b</link>",
	}
	for _, want := range required {
		if !strings.Contains(out, want) {
			t.Errorf("RSS output missing %q", want)
		}
	}

	// Post A carries a date, Post B must not. The channel itself
	// carries the run timestamp, so two pubDate elements in total.
	if !strings.Contains(out, "01 Jan 2024") {
		t.Error("RSS output missing pubDate for dated item")
	}
	if strings.Count(out, "<pubDate>") != 2 {
		t.Errorf("RSS output has %d pubDate elements, expected 2", strings.Count(out, "<pubDate>"))
	}
}

func TestAtomGolden(t *testing.T) {
	g := NewGenerator(testConfig, testNow)

	out, err := g.Atom(testItems())
	if err != nil {
		t.Fatalf("Atom() error = %v", err)
	}

	testutil.CompareGolden(t, "testdata/atom.golden", out)
}

func TestRenderingIsDeterministic(t *testing.T) {
	items := testItems()

	first := NewGenerator(testConfig, testNow)
	second := NewGenerator(testConfig, testNow)

	rss1, err := first.RSS(items)
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}
	rss2, err := second.RSS(items)
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}
	if rss1 != rss2 {
		t.Error("RSS output differs between identical renders")
	}

	atom1, err := first.Atom(items)
	if err != nil {
		t.Fatalf("Atom() error = %v", err)
	}
	atom2, err := second.Atom(items)
	if err != nil {
		t.Fatalf("Atom() error = %v", err)
	}
	if atom1 != atom2 {
		t.Error("Atom output differs between identical renders")
	}
}

func TestEmptyItemListRendersValidFeeds(t *testing.T) {
	g := NewGenerator(testConfig, testNow)

	rss, err := g.RSS(nil)
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}
	if !strings.Contains(rss, "<channel>") || strings.Contains(rss, "<item>") {
		t.Error("empty RSS feed should have a channel and no items")
	}

	atom, err := g.Atom(nil)
	if err != nil {
		t.Fatalf("Atom() error = %v", err)
	}
	if !strings.Contains(atom, "<feed") || strings.Contains(atom, "<entry>") {
		t.Error("empty Atom feed should have a feed element and no entries")
	}
}

func TestItemWithoutLinkFailsRendering(t *testing.T) {
	g := NewGenerator(testConfig, testNow)
	items := []Item{{Title: "No link"}}

	if _, err := g.RSS(items); err == nil {
		t.Error("RSS() should fail for an item without a link")
	}
	if _, err := g.Atom(items); err == nil {
		t.Error("Atom() should fail for an item without a link")
	}
}

func TestTextContentIsEscaped(t *testing.T) {
	g := NewGenerator(testConfig, testNow)
	items := []Item{{
		Title: "Ampersands & <Angles>",
		Link:  "https://example.com/blog/a?x=1&y=2",
	}}

	rss, err := g.RSS(items)
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}
	atom, err := g.Atom(items)
	if err != nil {
		t.Fatalf("Atom() error = %v", err)
	}

	for _, out := range []string{rss, atom} {
		if strings.Contains(out, "Ampersands & <Angles>") {
			t.Error("title was not XML-escaped")
		}
		if !strings.Contains(out, "Ampersands &amp; &lt;Angles&gt;") {
			t.Error("escaped title not found in output")
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "just words",
			expected: "just words",
		},
		{
			name:     "tags removed",
			input:    "<p>Hello <b>world</b></p>",
			expected: "Hello world",
		},
		{
			name:     "whitespace collapsed",
			input:    "  a \n\t b  ",
			expected: "a b",
		},
		{
			name:     "entities decoded",
			input:    "fish &amp; chips",
			expected: "fish & chips",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.expected {
				t.Errorf("StripHTML(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
