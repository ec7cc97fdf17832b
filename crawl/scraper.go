package crawl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/folio"
)

// Scraper sequences discovery and extraction of project detail pages.
type Scraper struct {
	Source    folio.URLSource
	Fetcher   folio.Fetcher
	Parser    folio.DetailParser
	Exporters []folio.Exporter
	Logger    *slog.Logger
}

// Result holds the outcome of a scrape.
type Result struct {
	Discovered int
	// Projects are in the order of the discovered URLs.
	Projects []*folio.Project
	Failures []Failure
}

// Failure records a detail page that was skipped.
type Failure struct {
	URL string
	Err error
}

// ProgressEvent reports progress during extraction.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// Scrape discovers detail pages and extracts a record from each. A page that
// cannot be fetched or parsed is logged and skipped; only discovery failures
// and cancellation abort the run.
func (s *Scraper) Scrape(ctx context.Context, progress ProgressFunc) (*Result, error) {
	urls, err := s.Source.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	result := &Result{Discovered: len(urls)}
	total := len(urls)
	notify(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := s.scrapeOne(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger().Warn("skipping page",
				"url", u,
				"code", folio.ErrorCode(err),
				"err", err,
			)
			result.Failures = append(result.Failures, Failure{URL: u, Err: err})
			notify(progress, ProgressEvent{
				Type:      ProgressFailed,
				Completed: i + 1,
				Total:     total,
				URL:       u,
				Error:     err,
			})
			continue
		}

		result.Projects = append(result.Projects, p)
		notify(progress, ProgressEvent{
			Type:      ProgressCompleted,
			Completed: i + 1,
			Total:     total,
			URL:       u,
		})
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// Run scrapes and hands the records to every exporter in order.
func (s *Scraper) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	result, err := s.Scrape(ctx, progress)
	if err != nil {
		return nil, err
	}
	for _, e := range s.Exporters {
		if err := e.Export(ctx, result.Projects); err != nil {
			return result, fmt.Errorf("export: %w", err)
		}
	}
	return result, nil
}

func (s *Scraper) scrapeOne(ctx context.Context, url string) (*folio.Project, error) {
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	p, err := s.Parser.ParseProject(html, url)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
