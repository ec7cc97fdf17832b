package folio

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultUserAgent identifies folio to the remote site so the operator can
// attribute and rate-limit the traffic.
const DefaultUserAgent = "Mozilla/5.0 (compatible; folio/1.0; +https://github.com/fwojciec/folio)"

// Site locates the portfolio pages on the remote site.
type Site struct {
	// BaseURL is the scheme and host, e.g. "https://ktgy.com".
	BaseURL string

	// ListingPath is the path of the portfolio listing, e.g. "/all-work/".
	ListingPath string

	// DetailPath is the path prefix shared by all project pages, e.g. "/Work/".
	DetailPath string
}

// DefaultSite returns the KTGY portfolio.
func DefaultSite() Site {
	return Site{
		BaseURL:     "https://ktgy.com",
		ListingPath: "/all-work/",
		DetailPath:  "/Work/",
	}
}

// Validate returns an error if the site cannot be used for discovery.
func (s Site) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return Errorf(EINVALID, "invalid base URL %q: %v", s.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "base URL %q must be http or https", s.BaseURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "base URL %q has no host", s.BaseURL)
	}
	if !strings.HasPrefix(s.ListingPath, "/") {
		return Errorf(EINVALID, "listing path %q must start with /", s.ListingPath)
	}
	if !strings.HasPrefix(s.DetailPath, "/") {
		return Errorf(EINVALID, "detail path %q must start with /", s.DetailPath)
	}
	return nil
}

// ListingURL returns the listing endpoint without a page number.
// It is the entry point for progressive expansion.
func (s Site) ListingURL() string {
	return s.base() + s.ListingPath + "?view_type=list"
}

// PageURL returns the URL of numbered listing page n (1-based).
func (s Site) PageURL(n int) string {
	return fmt.Sprintf("%s%s?page-num=%d&view_type=list", s.base(), s.ListingPath, n)
}

// DetailPrefix returns the absolute URL prefix every project page starts with.
func (s Site) DetailPrefix() string {
	return s.base() + s.DetailPath
}

func (s Site) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}
