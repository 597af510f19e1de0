package feed

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Item is one article in the final, merged record list. Items are
// immutable once the merger has produced them; rendering never mutates
// them. A zero Published time means the source exposed no date and the
// corresponding feed element is omitted.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// Config holds the channel/feed level metadata for one source
type Config struct {
	Title       string
	Link        string
	Description string
}

// CleanText collapses runs of whitespace into single spaces and trims
// the result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML reduces an HTML snippet to its plain text content. Both
// feed formats carry summaries as plain text so RSS and Atom stay
// byte-for-byte consistent with each other.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CleanText(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return CleanText(b.String())
}
