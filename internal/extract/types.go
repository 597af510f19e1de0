// Package extract recovers article candidates from listing-page HTML.
//
// Two strategies run in order: structured data (JSON-LD) first, then a
// link heuristic over plain anchors. Both produce Candidates; the
// pipeline's merger reconciles them into the final record list.
package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Origin identifies which extraction strategy produced a candidate
type Origin int

// Candidate origins, in strategy order
const (
	OriginStructured Origin = iota
	OriginHeuristic
)

func (o Origin) String() string {
	if o == OriginStructured {
		return "structured"
	}
	return "heuristic"
}

// Candidate is an article record as recovered by one extractor. All
// fields except Link are optional; never assume presence.
type Candidate struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
	Origin    Origin
}

// Complete reports whether the candidate carries both a title and a
// link. Incomplete candidates are still kept: their link can seed
// merging with a heuristic candidate for the same article.
func (c Candidate) Complete() bool {
	return c.Title != "" && c.Link != ""
}

// ParseDocument parses raw listing-page HTML into a queryable document
func ParseDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
