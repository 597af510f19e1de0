// Package urlutils provides URL and common helper functions.
package urlutils

import (
	"net/url"
	"strings"
)

// IsValidURL checks if a URL is valid
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ResolveURL resolves a relative URL against a base URL
// If the URL is already absolute, it returns it unchanged
func ResolveURL(baseURL, relativeURL string) (string, error) {
	// Parse the relative URL
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return "", err
	}

	// If it's already absolute, return as-is
	if rel.IsAbs() {
		return relativeURL, nil
	}

	// Parse the base URL
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	// Resolve the relative URL against the base
	resolved := base.ResolveReference(rel)
	return resolved.String(), nil
}

// NormalizeLink resolves href against baseURL and validates the result.
// Fragment-only, mailto: and javascript: targets and non-http(s) schemes
// return an empty string.
func NormalizeLink(href, baseURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:") {
		return ""
	}

	resolved, err := ResolveURL(baseURL, href)
	if err != nil {
		return ""
	}

	u, err := url.Parse(resolved)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	// Fragments never identify a distinct article
	u.Fragment = ""
	return u.String()
}

// CanonicalKey normalizes a URL for deduplication: scheme and host are
// lowercased and a trailing slash on the path is stripped. The query
// string is kept since it can carry article identity.
func CanonicalKey(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}
	u.Path = path
	u.Fragment = ""
	return u.String()
}

// SameURL reports whether two URLs identify the same page after
// canonical normalization.
func SameURL(a, b string) bool {
	return CanonicalKey(a) == CanonicalKey(b)
}

// LastPathSegment returns the last non-empty segment of the URL path,
// or an empty string when the path is root or empty.
func LastPathSegment(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}

// SlugToTitle converts the last path segment of a URL into a display
// title: separators become spaces, a file extension is dropped and each
// word is title-cased. Returns an empty string when no usable segment
// exists.
func SlugToTitle(link string) string {
	slug := LastPathSegment(link)
	if slug == "" {
		return ""
	}
	if idx := strings.LastIndex(slug, "."); idx > 0 {
		slug = slug[:idx]
	}
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	words := strings.Fields(slug)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// HostAndPath returns "host/path" for a URL, used as a fallback title
// when no slug can be derived.
func HostAndPath(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Host + strings.TrimRight(u.Path, "/")
}
