package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/urlutils"
)

// paginationPath matches listing pagination segments like /page/2
var paginationPath = regexp.MustCompile(`(?i)/page/\d+/?$`)

// paginationQuery holds query parameters that mark pagination links
var paginationQuery = map[string]bool{
	"page":  true,
	"paged": true,
	"p":     true,
}

// Links extracts article candidates by scanning anchors. Links already
// present in known (keyed by canonical form) were produced by the
// structured-data pass and are not re-emitted here; the merger remains
// the final authority on deduplication.
//
// The anchor scan is restricted to scopeSelectors when configured,
// otherwise the whole document is scanned. The result is deterministic
// for identical input: anchors are visited in document order and every
// rule is a pure function of the parsed tree.
func Links(doc *goquery.Document, pageURL string, scopeSelectors []string, known map[string]bool) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	for _, anchor := range selectAnchors(doc, scopeSelectors) {
		href, _ := anchor.Attr("href")
		link := urlutils.NormalizeLink(href, pageURL)
		if link == "" || !isArticleLink(link, pageURL) {
			continue
		}

		key := urlutils.CanonicalKey(link)
		if known[key] || seen[key] {
			continue
		}
		seen[key] = true

		candidates = append(candidates, Candidate{
			Title:     anchorTitle(anchor, link),
			Link:      link,
			Summary:   anchorSummary(anchor),
			Published: nearbyDate(anchor),
			Origin:    OriginHeuristic,
		})
	}

	return candidates
}

// selectAnchors returns the anchors to scan, in document order
func selectAnchors(doc *goquery.Document, scopeSelectors []string) []*goquery.Selection {
	var anchors []*goquery.Selection

	if len(scopeSelectors) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			anchors = append(anchors, a)
		})
		return anchors
	}

	for _, selector := range scopeSelectors {
		doc.Find(selector).Each(func(_ int, container *goquery.Selection) {
			container.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				anchors = append(anchors, a)
			})
		})
	}

	if len(anchors) == 0 {
		slog.Warn("No anchors found in configured link scopes", "selectors", scopeSelectors)
	}
	return anchors
}

// isArticleLink applies the discrimination rule for article candidates:
// not the listing page itself, not a bare host root, not pagination.
func isArticleLink(link, pageURL string) bool {
	if urlutils.SameURL(link, pageURL) {
		return false
	}

	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if strings.Trim(u.Path, "/") == "" {
		return false
	}
	if paginationPath.MatchString(u.Path) {
		return false
	}
	for param := range u.Query() {
		if paginationQuery[strings.ToLower(param)] {
			return false
		}
	}
	return true
}

// anchorTitle derives a title in fixed preference order: anchor text,
// title attribute, URL slug. May return an empty string; the merger
// synthesizes a fallback then.
func anchorTitle(anchor *goquery.Selection, link string) string {
	if text := feed.CleanText(anchor.Text()); text != "" {
		return text
	}
	if attr, ok := anchor.Attr("title"); ok {
		if attr = feed.CleanText(attr); attr != "" {
			return attr
		}
	}
	return urlutils.SlugToTitle(link)
}

// anchorSummary attributes the anchor's parent text block to the
// candidate when it adds signal beyond the title. Ambiguous context is
// left absent rather than guessed.
func anchorSummary(anchor *goquery.Selection) string {
	parent := anchor.Parent()
	if parent.Length() == 0 {
		return ""
	}

	text := feed.CleanText(parent.Text())
	title := feed.CleanText(anchor.Text())
	if text == "" || text == title {
		return ""
	}
	return text
}

// nearbyDate looks for a <time> element on the anchor or within three
// ancestor levels, preferring the machine-readable datetime attribute
// over the element text.
func nearbyDate(anchor *goquery.Selection) time.Time {
	scope := anchor
	for step := 0; step < 4 && scope.Length() > 0; step++ {
		timeNode := scope.Find("time").First()
		if timeNode.Length() > 0 {
			value, _ := timeNode.Attr("datetime")
			if value == "" {
				value = timeNode.Text()
			}
			if t := ParseDate(value); !t.IsZero() {
				return t
			}
		}
		scope = scope.Parent()
	}
	return time.Time{}
}
