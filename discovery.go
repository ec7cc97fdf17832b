package folio

import "context"

// Strategy selects how the portfolio listing is traversed.
type Strategy string

// Supported listing traversal strategies.
const (
	// StrategyPaginated walks numbered listing pages until a page adds no
	// new project URLs.
	StrategyPaginated Strategy = "paginated"

	// StrategyExpand loads the listing once in a browser and keeps clicking
	// its "load more" control.
	StrategyExpand Strategy = "expand"
)

// Validate returns an error if the strategy is not supported.
func (s Strategy) Validate() error {
	switch s {
	case StrategyPaginated, StrategyExpand:
		return nil
	}
	return Errorf(EINVALID, "unknown discovery strategy %q", string(s))
}

// URLSource discovers project detail-page URLs.
// Implementations return each URL once, sorted lexicographically.
type URLSource interface {
	Discover(ctx context.Context) ([]string, error)
}

// ListingParser extracts project detail-page links from one listing page.
type ListingParser interface {
	// ParseListing returns absolute project URLs in document order.
	// Tiles without a qualifying link are skipped, so the result may be empty.
	ParseListing(html string) ([]string, error)
}

// Limiter paces successive requests to the remote site.
type Limiter interface {
	// Wait blocks until the next request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
