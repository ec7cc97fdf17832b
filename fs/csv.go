package fs

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/fwojciec/folio"
)

// Ensure CSVExporter implements folio.Exporter at compile time.
var _ folio.Exporter = (*CSVExporter)(nil)

// CSVExporter writes projects to a CSV file with one header row.
type CSVExporter struct {
	path string
}

// NewCSVExporter creates a CSVExporter that writes to path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export replaces the file with the header and one row per project.
func (e *CSVExporter) Export(ctx context.Context, projects []*folio.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFileAtomic(e.path, func(w io.Writer) error {
		return WriteCSV(w, projects)
	})
}

// WriteCSV writes the header and one row per project to w.
func WriteCSV(w io.Writer, projects []*folio.Project) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(folio.Columns); err != nil {
		return err
	}
	for _, p := range projects {
		row, err := folio.Row(p)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
