package folio

import "context"

// Fetcher retrieves HTML from URLs with a single request.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// ExpansionStop reports why progressive expansion of a page ended.
type ExpansionStop int

// Reasons for ending progressive expansion. None of them is a failure.
const (
	// ExpansionExhausted means no further expansion control could be located.
	ExpansionExhausted ExpansionStop = iota

	// ExpansionInterrupted means an interaction step failed. The page is
	// used as it was when the step failed.
	ExpansionInterrupted

	// ExpansionLimited means the configured maximum number of expansions
	// was reached while a control was still present.
	ExpansionLimited
)

// String returns a lowercase name for the stop reason.
func (s ExpansionStop) String() string {
	switch s {
	case ExpansionExhausted:
		return "exhausted"
	case ExpansionInterrupted:
		return "interrupted"
	case ExpansionLimited:
		return "limited"
	default:
		return "unknown"
	}
}

// Expansion is the outcome of progressively expanding a page.
type Expansion struct {
	// Clicks is the number of times the expansion control was invoked.
	Clicks int

	// Stop is the reason expansion ended.
	Stop ExpansionStop

	// Err holds the failed interaction when Stop is ExpansionInterrupted.
	Err error
}

// Expander renders a page in a browser and repeatedly triggers its
// "load more" control before returning the expanded HTML.
type Expander interface {
	// Expand navigates to the URL, expands the page until no control is
	// left (or an interaction fails) and returns the resulting HTML.
	// An error is returned only when the page could not be loaded or read;
	// the Expansion describes how expansion ended.
	Expand(ctx context.Context, url string) (html string, exp *Expansion, err error)

	// Close releases browser resources.
	Close() error
}
