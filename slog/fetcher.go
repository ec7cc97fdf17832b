// Package slog provides logging decorators for folio services using the
// standard library's log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/folio"
)

// Ensure the decorators implement their folio interfaces.
var (
	_ folio.Fetcher  = (*LoggingFetcher)(nil)
	_ folio.Expander = (*LoggingExpander)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   folio.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next folio.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the result.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingExpander wraps an Expander with logging.
type LoggingExpander struct {
	next   folio.Expander
	logger *slog.Logger
}

// NewLoggingExpander creates a new LoggingExpander.
func NewLoggingExpander(next folio.Expander, logger *slog.Logger) *LoggingExpander {
	return &LoggingExpander{next: next, logger: logger}
}

// Expand delegates to the wrapped expander and logs the expansion outcome.
func (e *LoggingExpander) Expand(ctx context.Context, url string) (html string, exp *folio.Expansion, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if exp != nil {
			attrs = append(attrs, "clicks", exp.Clicks, "stop", exp.Stop.String())
			if exp.Err != nil {
				attrs = append(attrs, "stop_err", exp.Err)
			}
		}
		attrs = append(attrs, "err", err)
		e.logger.Info("expand", attrs...)
	}(time.Now())
	return e.next.Expand(ctx, url)
}

// Close delegates to the wrapped expander.
func (e *LoggingExpander) Close() error {
	return e.next.Close()
}
