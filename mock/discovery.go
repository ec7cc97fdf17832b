package mock

import (
	"context"

	"github.com/fwojciec/folio"
)

var (
	_ folio.URLSource     = (*URLSource)(nil)
	_ folio.ListingParser = (*ListingParser)(nil)
	_ folio.Limiter       = (*Limiter)(nil)
)

// URLSource is a mock implementation of folio.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context) ([]string, error) {
	return s.DiscoverFn(ctx)
}

// ListingParser is a mock implementation of folio.ListingParser.
type ListingParser struct {
	ParseListingFn func(html string) ([]string, error)
}

func (p *ListingParser) ParseListing(html string) ([]string, error) {
	return p.ParseListingFn(html)
}

// Limiter is a mock implementation of folio.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
