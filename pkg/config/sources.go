package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Source describes one configured listing page. Pattern lists are
// compiled at load time; a bad pattern fails the whole load rather than
// silently dropping a filter.
type Source struct {
	ID              string `yaml:"id"`
	URL             string `yaml:"url"`
	SiteURL         string `yaml:"site_url"`
	FeedTitle       string `yaml:"feed_title"`
	FeedDescription string `yaml:"feed_description"`
	OutputRSS       string `yaml:"output_rss"`
	OutputAtom      string `yaml:"output_atom"`
	MaxItems        int    `yaml:"max_items"`

	IncludeURLPatterns []string `yaml:"include_url_patterns"`
	ExcludeURLPatterns []string `yaml:"exclude_url_patterns"`
	LinkScopeSelectors []string `yaml:"link_scope_selectors"`

	UseJSONLD *bool `yaml:"use_json_ld"`
	Enrich    bool  `yaml:"enrich"`

	// Compiled pattern lists, populated by LoadSources
	Include []*regexp.Regexp `yaml:"-"`
	Exclude []*regexp.Regexp `yaml:"-"`
}

// sourcesFile is the on-disk shape of the source list
type sourcesFile struct {
	Sources []*Source `yaml:"sources"`
}

// StructuredDataEnabled reports whether the JSON-LD extractor should
// run for this source. Defaults to true when unset.
func (s *Source) StructuredDataEnabled() bool {
	return s.UseJSONLD == nil || *s.UseJSONLD
}

// LoadSources reads and validates the source list. The file may be a
// top-level list or an object with a "sources" key.
func LoadSources(path string) ([]*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil || len(file.Sources) == 0 {
		// Fall back to a bare list document
		var list []*Source
		if listErr := yaml.Unmarshal(data, &list); listErr == nil && len(list) > 0 {
			file.Sources = list
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse sources file: %w", err)
		}
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("no sources defined in %s", path)
	}

	seen := make(map[string]bool)
	for _, source := range file.Sources {
		if err := source.validate(); err != nil {
			return nil, fmt.Errorf("source %q: %w", source.ID, err)
		}
		if seen[source.ID] {
			return nil, fmt.Errorf("duplicate source id %q", source.ID)
		}
		seen[source.ID] = true
	}

	return file.Sources, nil
}

// validate checks required fields, applies defaults and compiles the
// URL pattern lists.
func (s *Source) validate() error {
	if s.ID == "" {
		return fmt.Errorf("id is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}

	parsed, err := url.Parse(s.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("url %q is not an absolute URL", s.URL)
	}

	if s.SiteURL == "" {
		s.SiteURL = parsed.Scheme + "://" + parsed.Host
	}
	if s.FeedTitle == "" {
		s.FeedTitle = s.ID
	}
	if s.FeedDescription == "" {
		s.FeedDescription = fmt.Sprintf("Generated feed for %s", s.URL)
	}
	if s.OutputRSS == "" {
		s.OutputRSS = fmt.Sprintf("feeds/%s.rss.xml", s.ID)
	}
	if s.OutputAtom == "" {
		s.OutputAtom = fmt.Sprintf("feeds/%s.atom.xml", s.ID)
	}
	if s.MaxItems <= 0 {
		s.MaxItems = 30
	}

	if s.Include, err = compilePatterns(s.IncludeURLPatterns); err != nil {
		return fmt.Errorf("include_url_patterns: %w", err)
	}
	if s.Exclude, err = compilePatterns(s.ExcludeURLPatterns); err != nil {
		return fmt.Errorf("exclude_url_patterns: %w", err)
	}

	return nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
