// ABOUTME: Feed discovery for site URLs that are not feeds themselves
// ABOUTME: Follows <link rel="alternate"> headers, then probes common feed paths

package feedsource

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

// ErrNoFeedFound is returned when a page neither is nor advertises a feed.
var ErrNoFeedFound = errors.New("no RSS/Atom feed found at URL")

// Common feed paths to probe when a page advertises no feed
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/atom",
	"/index.xml",
	"/feed/rss",
	"/feed/atom",
	"/feeds/posts/default",
}

// discover finds the feed behind pageURL, whose already-fetched body is page.
// It returns the feed URL together with the parsed feed.
func (s *Source) discover(ctx context.Context, pageURL string, page []byte) (string, *gofeed.Feed, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", nil, ErrNoFeedFound
	}

	candidates := FeedLinks(page, base)
	probeBase := &url.URL{Scheme: base.Scheme, Host: base.Host}
	for _, path := range commonFeedPaths {
		candidates = append(candidates, probeBase.String()+path)
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		if candidate == pageURL {
			continue
		}
		body, err := s.get(ctx, candidate)
		if err != nil {
			continue
		}
		feed, err := s.parser.Parse(bytes.NewReader(body))
		if err == nil {
			return candidate, feed, nil
		}
	}
	return "", nil, ErrNoFeedFound
}

// FeedLinks returns the absolute URLs of feeds advertised by an HTML page
// through <link rel="alternate"> elements, in document order.
func FeedLinks(page []byte, base *url.URL) []string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if strings.EqualFold(rel, "alternate") && isFeedContentType(linkType) && href != "" {
				if ref, err := url.Parse(href); err == nil {
					links = append(links, base.ResolveReference(ref).String())
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
