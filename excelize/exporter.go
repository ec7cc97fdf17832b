// Package excelize exports scraped projects to an XLSX workbook using
// github.com/xuri/excelize/v2.
package excelize

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/fs"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the worksheet holding the projects.
const SheetName = "Projects"

// Ensure Exporter implements folio.Exporter at compile time.
var _ folio.Exporter = (*Exporter)(nil)

// Exporter writes projects to an XLSX workbook with a frozen, bold header.
type Exporter struct {
	path string
}

// NewExporter creates an Exporter that writes to path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Export replaces the workbook with the header and one row per project.
func (e *Exporter) Export(ctx context.Context, projects []*folio.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fs.WriteFileAtomic(e.path, func(w io.Writer) error {
		return WriteWorkbook(w, projects)
	})
}

// WriteWorkbook writes an XLSX workbook with the projects to w.
func WriteWorkbook(w io.Writer, projects []*folio.Project) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := folio.Columns
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, p := range projects {
		row, err := folio.Row(p)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing %s: %w", p.SourceURL, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "C", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", "G", 50); err != nil {
		return err
	}

	return f.Write(w)
}
