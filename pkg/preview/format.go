package preview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/feed-weave/pkg/feed"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// FormatCompactListItem renders one record as a single list row
func FormatCompactListItem(index int, item feed.Item) string {
	date := "          "
	if !item.Published.IsZero() {
		date = item.Published.Format("2006-01-02")
	}
	return fmt.Sprintf("%3d. %s  %s", index+1, dimStyle.Render(date), truncate(item.Title, 70))
}

// FormatDetailedItem renders the full field view of one record
func FormatDetailedItem(item feed.Item) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Title:    "))
	b.WriteString(item.Title)
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Link:     "))
	b.WriteString(item.Link)
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Published:"))
	b.WriteString(" ")
	if item.Published.IsZero() {
		b.WriteString(dimStyle.Render("(none)"))
	} else {
		b.WriteString(item.Published.Format(time.RFC1123))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Summary:  "))
	if item.Summary == "" {
		b.WriteString(dimStyle.Render("(none)"))
	} else {
		b.WriteString(truncate(feed.StripHTML(item.Summary), 500))
	}
	b.WriteString("\n")

	return b.String()
}

// FormatXMLItem renders a single record as it will appear in the RSS
// output, using a one-item feed.
func FormatXMLItem(item feed.Item, config feed.Config, now time.Time) string {
	generator := feed.NewGenerator(config, now)
	out, err := generator.RSS([]feed.Item{item})
	if err != nil {
		return fmt.Sprintf("render error: %v", err)
	}
	return out
}

// truncate shortens a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
