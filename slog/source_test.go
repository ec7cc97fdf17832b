package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/mock"
	folioslog "github.com/fwojciec/folio/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingURLSource_Discover(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.URLSource{
			DiscoverFn: func(ctx context.Context) ([]string, error) {
				return []string{"https://ktgy.com/Work/a", "https://ktgy.com/Work/b"}, nil
			},
		}

		src := folioslog.NewLoggingURLSource(inner, logger)
		urls, err := src.Discover(context.Background())

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "discovery")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.URLSource{
			DiscoverFn: func(ctx context.Context) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		src := folioslog.NewLoggingURLSource(inner, logger)
		_, err := src.Discover(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"connection failed\"")
	})
}

func TestLoggingExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("logs destination and record count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got int
		inner := &mock.Exporter{
			ExportFn: func(ctx context.Context, projects []*folio.Project) error {
				got = len(projects)
				return nil
			},
		}

		exporter := folioslog.NewLoggingExporter(inner, "ktgy.csv", logger)
		err := exporter.Export(context.Background(), []*folio.Project{{Name: "A"}, {Name: "B"}})

		require.NoError(t, err)
		assert.Equal(t, 2, got)
		output := buf.String()
		assert.Contains(t, output, "export")
		assert.Contains(t, output, "dest=ktgy.csv")
		assert.Contains(t, output, "count=2")
	})
}
