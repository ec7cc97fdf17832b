package excelize_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/folio"
	folioexcelize "github.com/fwojciec/folio/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes header and one row per project", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ktgy.xlsx")
		projects := []*folio.Project{
			{
				Name:            "Vista Lofts",
				Location:        "Irvine, CA",
				Client:          "Acme Homes",
				Classifications: []string{"Multifamily", "Mixed-Use"},
				SourceURL:       "https://ktgy.com/Work/vista",
				Description:     "A mid-rise community.",
				Facts:           map[string]string{"Units": "120"},
			},
			{
				Name:        "Harbor Point",
				Location:    "San Diego, CA",
				Client:      "Bay Dev",
				SourceURL:   "https://ktgy.com/Work/harbor",
				Description: "Townhomes.",
			},
		}

		err := folioexcelize.NewExporter(path).Export(context.Background(), projects)
		require.NoError(t, err)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(folioexcelize.SheetName)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, folio.Columns, rows[0])
		assert.Equal(t, []string{
			"Vista Lofts",
			"Irvine, CA",
			"Acme Homes",
			`["Multifamily","Mixed-Use"]`,
			"https://ktgy.com/Work/vista",
			"A mid-rise community.",
			`{"Units":"120"}`,
		}, rows[1])
		assert.Equal(t, "[]", rows[2][3])
		assert.Equal(t, "{}", rows[2][6])
	})

	t.Run("empty input writes only the header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, folioexcelize.WriteWorkbook(&buf, nil))

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(folioexcelize.SheetName)
		require.NoError(t, err)
		assert.Equal(t, [][]string{folio.Columns}, rows)
	})

	t.Run("canceled context writes nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ktgy.xlsx")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := folioexcelize.NewExporter(path).Export(ctx, nil)

		require.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}
