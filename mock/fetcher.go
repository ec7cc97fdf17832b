package mock

import (
	"context"

	"github.com/fwojciec/folio"
)

var _ folio.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of folio.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ folio.Expander = (*Expander)(nil)

// Expander is a mock implementation of folio.Expander.
type Expander struct {
	ExpandFn func(ctx context.Context, url string) (string, *folio.Expansion, error)
	CloseFn  func() error
}

func (e *Expander) Expand(ctx context.Context, url string) (string, *folio.Expansion, error) {
	return e.ExpandFn(ctx, url)
}

func (e *Expander) Close() error {
	return e.CloseFn()
}
