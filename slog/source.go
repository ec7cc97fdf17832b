package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/folio"
)

var (
	_ folio.URLSource = (*LoggingURLSource)(nil)
	_ folio.Exporter  = (*LoggingExporter)(nil)
)

// LoggingURLSource wraps a URLSource with logging.
type LoggingURLSource struct {
	next   folio.URLSource
	logger *slog.Logger
}

// NewLoggingURLSource creates a new LoggingURLSource.
func NewLoggingURLSource(next folio.URLSource, logger *slog.Logger) *LoggingURLSource {
	return &LoggingURLSource{next: next, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingURLSource) Discover(ctx context.Context) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discovery",
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx)
}

// LoggingExporter wraps an Exporter with logging. The name identifies the
// destination in log output.
type LoggingExporter struct {
	next   folio.Exporter
	name   string
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next folio.Exporter, name string, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, name: name, logger: logger}
}

// Export delegates to the wrapped exporter and logs the operation.
func (e *LoggingExporter) Export(ctx context.Context, projects []*folio.Project) (err error) {
	defer func(begin time.Time) {
		e.logger.Info("export",
			"dest", e.name,
			"count", len(projects),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Export(ctx, projects)
}
