package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

func sampleResult() *types.ComparisonResult {
	cols := types.NewColumnMap()
	cols[types.FieldID] = 0
	cols[types.FieldDate] = 1
	cols[types.FieldStatus] = 2
	cols[types.FieldProject] = 3

	return &types.ComparisonResult{
		Modified: []types.ComparisonDiff{{
			ID:          "A1",
			ProjectName: "台南案",
			Customer:    "Acme",
			Changes: []types.FieldChange{
				{Field: types.FieldDate, Column: "日", OldValue: "2026/01/01", NewValue: "2026/02/01"},
				{Field: types.FieldStatus, Column: "狀態", OldValue: "Open", NewValue: "(empty)"},
			},
		}},
		Added: []types.Row{{
			ID:          "B2",
			ProjectName: "高雄案",
			Date:        types.Number(46023),
			Status:      types.Text("Open"),
			Columns:     cols,
		}},
		Removed: []types.Row{{ID: "C3", Customer: "Globex", Columns: cols}},
	}
}

func TestChangeDescription(t *testing.T) {
	got := ChangeDescription([]types.FieldChange{
		{Column: "狀態", OldValue: "Open", NewValue: "Closed"},
		{Column: "Qty pc", OldValue: "10", NewValue: "12"},
	})

	assert.Equal(t, "[狀態]: Open -> Closed ; [Qty pc]: 10 -> 12", got)
	assert.Empty(t, ChangeDescription(nil))
}

func TestRecords(t *testing.T) {
	records := Records(sampleResult(), DefaultLabels())

	require.Len(t, records, 3)

	assert.Equal(t, Record{
		Kind:        KindModified,
		KindLabel:   "內容異動",
		ID:          "A1",
		ProjectName: "台南案",
		Customer:    "Acme",
		Details:     "[日]: 2026/01/01 -> 2026/02/01 ; [狀態]: Open -> (empty)",
	}, records[0])

	assert.Equal(t, KindAdded, records[1].Kind)
	assert.Equal(t, "全新增項", records[1].KindLabel)
	assert.Equal(t, "新增資料：[日: 2026/01/01] [狀態: Open]", records[1].Details,
		"product and qty columns are absent from the row")

	assert.Equal(t, KindRemoved, records[2].Kind)
	assert.Equal(t, "Globex", records[2].Customer)
	assert.Equal(t, "此項次已從更新檔案中刪除", records[2].Details)
}

func TestRecords_Empty(t *testing.T) {
	records := Records(&types.ComparisonResult{}, DefaultLabels())
	assert.Empty(t, records)
}

func TestWriteXLSX(t *testing.T) {
	labels := DefaultLabels()
	records := Records(sampleResult(), labels)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteXLSX(path, records, labels))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"業務異動報告"}, f.GetSheetList())

	rows, err := f.GetRows("業務異動報告")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"狀態類型", "編號", "案名", "客戶", "變更明細"}, rows[0])
	assert.Equal(t, records[0].Values(), rows[1])
	assert.Equal(t, "C3", rows[3][1])

	width, err := f.GetColWidth("業務異動報告", "E")
	require.NoError(t, err)
	assert.Equal(t, 80.0, width)
	width, err = f.GetColWidth("業務異動報告", "A")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)
}

func TestWriteXLSX_Styles(t *testing.T) {
	labels := DefaultLabels()
	records := Records(sampleResult(), labels)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, records, labels))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := labels.SheetName

	headerID, err := f.GetCellStyle(sheet, "E1")
	require.NoError(t, err)
	header, err := f.GetStyle(headerID)
	require.NoError(t, err)
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold, "the last header cell is bold")

	lastID, err := f.GetCellStyle(sheet, "E4")
	require.NoError(t, err)
	last, err := f.GetStyle(lastID)
	require.NoError(t, err)
	require.NotNil(t, last.Alignment)
	assert.True(t, last.Alignment.WrapText, "the last details cell wraps")
}

func TestWriteCSV(t *testing.T) {
	labels := DefaultLabels()
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, Records(sampleResult(), labels), labels))

	body := strings.TrimPrefix(buf.String(), "\uFEFF")
	assert.NotEqual(t, buf.String(), body, "output starts with a BOM")

	lines, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, labels.Header(), lines[0])
	assert.Equal(t, "B2", lines[2][1])
}
