package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

// AtomEntry represents an entry in the generated Atom feed. A custom
// struct is used instead of the stock gorilla Atom output so entries
// without a publish date omit <updated> entirely instead of carrying an
// empty element.
type AtomEntry struct {
	XMLName xml.Name           `xml:"entry"`
	Title   string             `xml:"title"`
	Id      string             `xml:"id"`
	Updated string             `xml:"updated,omitempty"`
	Links   []feeds.AtomLink   `xml:"link"`
	Summary *feeds.AtomSummary `xml:"summary,omitempty"`
}

// AtomFeed represents the generated Atom 1.0 document
type AtomFeed struct {
	XMLName  xml.Name        `xml:"feed"`
	Xmlns    string          `xml:"xmlns,attr"`
	Title    string          `xml:"title"`
	Id       string          `xml:"id"`
	Updated  string          `xml:"updated"`
	Subtitle string          `xml:"subtitle,omitempty"`
	Link     *feeds.AtomLink `xml:"link,omitempty"`
	Entries  []*AtomEntry    `xml:"entry"`
}

// Atom renders the items as an Atom 1.0 document
func (g *Generator) Atom(items []Item) (string, error) {
	if err := validateItems(items); err != nil {
		return "", fmt.Errorf("invalid record list: %w", err)
	}

	atom := &AtomFeed{
		Xmlns:    "http://www.w3.org/2005/Atom",
		Title:    g.config.Title,
		Id:       g.config.Link,
		Updated:  g.now.Format(time.RFC3339),
		Subtitle: g.config.Description,
		Link:     &feeds.AtomLink{Href: g.config.Link, Rel: "alternate"},
	}

	for _, item := range items {
		entry := &AtomEntry{
			Title: item.Title,
			Id:    item.Link,
			Links: []feeds.AtomLink{
				{Href: item.Link, Rel: "alternate", Type: "text/html"},
			},
		}
		if !item.Published.IsZero() {
			entry.Updated = item.Published.UTC().Format(time.RFC3339)
		}
		if summary := StripHTML(item.Summary); summary != "" {
			entry.Summary = &feeds.AtomSummary{Content: summary, Type: "text"}
		}
		atom.Entries = append(atom.Entries, entry)
	}

	data, err := xml.MarshalIndent(atom, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal atom feed: %w", err)
	}
	return xml.Header + string(data), nil
}
