package extract

import (
	"log/slog"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing publish dates. RFC 3339
// covers well-behaved JSON-LD; the rest are formats blogs actually emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a publish date string, returning the zero time when
// the value is empty or matches no known layout. Unparsable dates are a
// soft failure: logged and dropped, never fatal.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}

	slog.Debug("Unparsable publish date dropped", "value", value)
	return time.Time{}
}
