// Package crawl orchestrates discovery of project detail pages and their
// extraction into records.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/fwojciec/folio"
)

var _ folio.URLSource = (*Discoverer)(nil)

// Discoverer enumerates project detail-page URLs from the portfolio listing
// using one traversal strategy per run.
type Discoverer struct {
	Strategy folio.Strategy
	Site     folio.Site

	// Fetcher retrieves numbered listing pages for StrategyPaginated.
	Fetcher folio.Fetcher
	// Expander retrieves the fully expanded listing for StrategyExpand.
	Expander folio.Expander

	Listings folio.ListingParser
	Limiter  folio.Limiter
	Logger   *slog.Logger
}

// Discover returns the deduplicated detail-page URLs in ascending order.
// A listing page that cannot be fetched aborts discovery.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	if err := d.Strategy.Validate(); err != nil {
		return nil, err
	}

	var (
		seen map[string]struct{}
		err  error
	)
	switch d.Strategy {
	case folio.StrategyPaginated:
		seen, err = d.paginate(ctx)
	case folio.StrategyExpand:
		seen, err = d.expand(ctx)
	}
	if err != nil {
		return nil, err
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

// paginate fetches numbered listing pages until a page adds no new URLs.
func (d *Discoverer) paginate(ctx context.Context) (map[string]struct{}, error) {
	if d.Fetcher == nil {
		return nil, folio.Errorf(folio.EINVALID, "paginated discovery requires a fetcher")
	}

	seen := make(map[string]struct{})
	for page := 1; ; page++ {
		if d.Limiter != nil {
			if err := d.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		urls, err := d.listing(ctx, d.Site.PageURL(page))
		if err != nil {
			return nil, err
		}

		countLast := len(seen)
		for _, u := range urls {
			seen[u] = struct{}{}
		}
		if len(seen) == countLast {
			d.logger().Debug("pagination converged", "page", page, "urls", len(seen))
			return seen, nil
		}
	}
}

func (d *Discoverer) listing(ctx context.Context, pageURL string) ([]string, error) {
	html, err := d.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, transportFailure(pageURL, err)
	}
	return d.Listings.ParseListing(html)
}

// expand loads the listing once with progressive expansion. Stopping on an
// interaction error keeps whatever the page had loaded by then.
func (d *Discoverer) expand(ctx context.Context) (map[string]struct{}, error) {
	if d.Expander == nil {
		return nil, folio.Errorf(folio.EINVALID, "expand discovery requires an expander")
	}

	listingURL := d.Site.ListingURL()
	html, exp, err := d.Expander.Expand(ctx, listingURL)
	if err != nil {
		return nil, transportFailure(listingURL, err)
	}
	if exp != nil {
		switch exp.Stop {
		case folio.ExpansionInterrupted:
			d.logger().Warn("listing expansion interrupted",
				"url", listingURL, "clicks", exp.Clicks, "err", exp.Err)
		case folio.ExpansionLimited:
			d.logger().Warn("listing expansion hit its limit",
				"url", listingURL, "clicks", exp.Clicks)
		default:
			d.logger().Debug("listing expanded", "url", listingURL, "clicks", exp.Clicks)
		}
	}

	urls, err := d.Listings.ParseListing(html)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	return seen, nil
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// transportFailure keeps coded errors and cancellation intact and marks
// everything else as a transport failure.
func transportFailure(url string, err error) error {
	if errors.Is(err, context.Canceled) || folio.ErrorCode(err) != folio.EINTERNAL {
		return err
	}
	return folio.Errorf(folio.ETRANSPORT, "fetching %s: %v", url, err)
}
