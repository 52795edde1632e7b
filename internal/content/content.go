// ABOUTME: Renders article descriptions and whole articles as Markdown
// ABOUTME: HTML descriptions from feeds are converted; plain text passes through

package content

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/harper/newsdesk/internal/models"
)

// htmlTagPattern matches tags that show up in feed and API descriptions.
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// IsHTML reports whether s looks like HTML rather than plain text.
func IsHTML(s string) bool {
	if strings.Contains(s, "<!DOCTYPE") || strings.Contains(s, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(s)
}

// ToMarkdown converts an HTML description to Markdown.
// Plain text, and HTML the converter rejects, come back unchanged.
func ToMarkdown(s string) string {
	if s == "" || !IsHTML(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}

// Summary flattens a description onto one line and truncates it to width runes.
func Summary(s string, width int) string {
	s = whitespacePattern.ReplaceAllString(strings.TrimSpace(ToMarkdown(s)), " ")
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:width-1]), " ") + "…"
}

// ArticleMarkdown renders a full article for terminal display or agent consumption.
func ArticleMarkdown(a models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)

	var meta []string
	if name := a.AuthorName(); name != "" {
		meta = append(meta, "By "+name)
	}
	if a.Source.Name != "" {
		meta = append(meta, a.Source.Name)
	} else {
		meta = append(meta, "Unknown Source")
	}
	if a.PublishedAt != "" {
		meta = append(meta, a.PublishedAt)
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))

	if desc := ToMarkdown(a.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	if a.URL != "" {
		fmt.Fprintf(&b, "[Open the full article](%s)\n", a.URL)
	}
	return b.String()
}
