// ABOUTME: Time helpers for article publish timestamps
// ABOUTME: Parses ISO 8601 publishedAt strings and formats them for display

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// publishedLayouts are tried in order when parsing a publishedAt value.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublished parses an ISO 8601 timestamp as delivered by news APIs.
// The second return value is false when no layout matches.
func ParsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPublished renders t the way stored articles carry it (RFC3339, UTC).
func FormatPublished(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Ago renders a compact relative age ("5m ago", "3h ago", "2d ago").
// Anything older than a week falls back to a short date.
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return t.Format("Jan 2 2006")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2 2006")
	}
}

// Describe turns a publishedAt string into display text relative to now.
// Unparseable values are returned unchanged, empty ones as "unknown date".
func Describe(published string, now time.Time) string {
	t, ok := ParsePublished(published)
	if !ok {
		if strings.TrimSpace(published) == "" {
			return "unknown date"
		}
		return published
	}
	return Ago(t, now)
}
