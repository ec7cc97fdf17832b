// Package goquery implements the folio listing and detail parsers on top of
// github.com/PuerkitoBio/goquery CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/folio"
)

// listingEntrySelector matches one tile on the portfolio listing. Tiles for
// people and news share the container, so the link prefix decides.
const listingEntrySelector = "div.people_filter__person"

var _ folio.ListingParser = (*ListingParser)(nil)

// ListingParser extracts project links from portfolio listing pages.
type ListingParser struct {
	base   *url.URL
	prefix string
}

// NewListingParser creates a ListingParser for the given site.
// Relative links are resolved against the site's base URL.
func NewListingParser(site folio.Site) (*ListingParser, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, folio.Errorf(folio.EINVALID, "invalid base URL: %v", err)
	}
	return &ListingParser{
		base:   base,
		prefix: site.DetailPrefix(),
	}, nil
}

// ParseListing returns the first qualifying link of every listing tile in
// document order. Duplicates are kept; the discoverer owns deduplication.
func (p *ListingParser) ParseListing(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, folio.Errorf(folio.EINVALID, "failed to parse HTML: %v", err)
	}

	var urls []string
	doc.Find(listingEntrySelector).Each(func(_ int, entry *goquery.Selection) {
		href, exists := entry.Find("a").First().Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(p.base, href)
		if resolved == "" || !strings.HasPrefix(resolved, p.prefix) {
			return
		}
		urls = append(urls, resolved)
	})

	return urls, nil
}

// resolveURL resolves a relative URL against a base URL.
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
