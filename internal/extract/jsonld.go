package extract

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/urlutils"
)

// articleTypes are the JSON-LD @type values treated as article entities
var articleTypes = map[string]bool{
	"Article":     true,
	"BlogPosting": true,
	"NewsArticle": true,
	"TechArticle": true,
}

// StructuredData extracts article candidates from the page's JSON-LD
// script blocks. Each block is parsed independently; a malformed block
// is logged and skipped. An empty result is a normal outcome, not an
// error: most listing pages carry no structured data at all.
func StructuredData(doc *goquery.Document, baseURL string) []Candidate {
	var candidates []Candidate

	doc.Find("script[type='application/ld+json']").Each(func(i int, script *goquery.Selection) {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return
		}

		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			slog.Debug("Skipping malformed JSON-LD block", "block", i, "error", err)
			return
		}

		walkNode(payload, baseURL, &candidates)
	})

	return candidates
}

// walkNode descends through the JSON-LD value tree collecting article
// nodes. Arrays, @graph containers and nested entities are all visited.
func walkNode(node any, baseURL string, out *[]Candidate) {
	switch v := node.(type) {
	case []any:
		for _, child := range v {
			walkNode(child, baseURL, out)
		}
	case map[string]any:
		if isArticleNode(v) {
			if c, ok := candidateFromNode(v, baseURL); ok {
				*out = append(*out, c)
			}
		}
		for _, child := range v {
			walkNode(child, baseURL, out)
		}
	}
}

// isArticleNode checks the node's @type against the recognized article
// vocabularies. @type may be a single string or a list.
func isArticleNode(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return articleTypes[t]
	case []any:
		for _, entry := range t {
			if s, ok := entry.(string); ok && articleTypes[s] {
				return true
			}
		}
	}
	return false
}

// candidateFromNode maps one article node to a candidate. A node whose
// URL cannot be resolved yields nothing: a record with no link carries
// no usable signal.
func candidateFromNode(node map[string]any, baseURL string) (Candidate, bool) {
	link := urlutils.NormalizeLink(nodeURL(node), baseURL)
	if link == "" {
		return Candidate{}, false
	}

	c := Candidate{
		Link:    link,
		Title:   feed.CleanText(stringField(node, "headline", "name")),
		Summary: feed.CleanText(stringField(node, "description")),
		Origin:  OriginStructured,
	}
	c.Published = ParseDate(stringField(node, "datePublished", "dateCreated", "dateModified"))
	return c, true
}

// nodeURL resolves the article URL from a node: url first, then
// mainEntityOfPage, each of which may be a plain string or an object
// with an @id.
func nodeURL(node map[string]any) string {
	for _, key := range []string{"url", "mainEntityOfPage"} {
		switch v := node[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if id, ok := v["@id"].(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}

// stringField returns the first of the named fields holding a
// non-empty string value.
func stringField(node map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := node[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
