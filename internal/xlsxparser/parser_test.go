package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_TypedCells(t *testing.T) {
	path := writeWorkbook(t, "業務", [][]interface{}{
		{"編號", "日", "狀態", "Qty pc", "結案"},
		{"A1", 46023, "Open", 10.5, true},
		{46024, "2026/01/02", "46023", nil, false},
	})

	grid, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, "業務", grid.Sheet)
	assert.Equal(t, path, grid.SourceFile)
	require.Len(t, grid.Rows, 3)

	assert.Equal(t, types.Text("編號"), grid.Rows[0][0])

	row := grid.Rows[1]
	assert.Equal(t, types.Text("A1"), row[0])
	assert.Equal(t, types.Number(46023), row[1])
	assert.Equal(t, types.Text("Open"), row[2])
	assert.Equal(t, types.Number(10.5), row[3])
	assert.Equal(t, types.Text("TRUE"), row[4])

	row = grid.Rows[2]
	assert.Equal(t, types.Number(46024), row[0])
	assert.Equal(t, types.Text("2026/01/02"), row[1])
	assert.Equal(t, types.Text("46023"), row[2], "numeric-looking text stays text")
	assert.True(t, row[3].IsEmpty())
	assert.Equal(t, types.Text("FALSE"), row[4])
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{{"編號"}})

	_, err := Parse(path, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "missing" not found`)

	grid, err := Parse(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"編號"}}, grid.Strings())
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t, "2026Q1", [][]interface{}{{"編號"}})

	sheets, err := ListSheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026Q1"}, sheets)
}
