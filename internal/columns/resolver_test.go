package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

func TestResolve_LedgerHeader(t *testing.T) {
	header := []string{"編號", "出貨日", "狀態", "產品", "Qty pc", "Qty kW", "案名", "客戶"}

	cols := Resolve(header, DefaultLabels())

	want := map[types.Field]int{
		types.FieldID:       0,
		types.FieldDate:     1,
		types.FieldStatus:   2,
		types.FieldProduct:  3,
		types.FieldQtyPiece: 4,
		types.FieldQtyKW:    5,
		types.FieldProject:  6,
		types.FieldCustomer: 7,
	}
	for field, idx := range want {
		got, ok := cols.Index(field)
		assert.True(t, ok, "field %s", field)
		assert.Equal(t, idx, got, "field %s", field)
	}
}

func TestResolve_FuzzyMatching(t *testing.T) {
	header := []string{"", " 案 名 ", "ＱＴＹ\u3000ＰＣ", "qty\u200Bkw", "編號\n(內部)"}

	cols := Resolve(header, DefaultLabels())

	idx, ok := cols.Index(types.FieldProject)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = cols.Index(types.FieldQtyPiece)
	require.True(t, ok, "full-width, upper-case header should match")
	assert.Equal(t, 2, idx)

	idx, ok = cols.Index(types.FieldQtyKW)
	require.True(t, ok, "case-insensitive match across a zero-width space")
	assert.Equal(t, 3, idx)

	idx, ok = cols.Index(types.FieldID)
	require.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	header := []string{"編號", "狀態", "狀態(舊)"}

	cols := Resolve(header, DefaultLabels())

	idx, _ := cols.Index(types.FieldStatus)
	assert.Equal(t, 1, idx)
}

func TestResolve_MissingFieldsAreNotFound(t *testing.T) {
	header := []string{"編號", "狀態"}

	cols := Resolve(header, DefaultLabels())

	assert.True(t, cols.Has(types.FieldStatus))
	for _, f := range []types.Field{types.FieldDate, types.FieldProduct, types.FieldQtyPiece, types.FieldQtyKW, types.FieldCustomer} {
		assert.False(t, cols.Has(f), "field %s", f)
	}
}

func TestResolve_EmptyLabelNeverMatches(t *testing.T) {
	labels := DefaultLabels()
	labels[types.FieldCustomer] = "  "

	cols := Resolve([]string{"編號", "客戶"}, labels)

	assert.False(t, cols.Has(types.FieldCustomer))
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"2026 年度業務總表"},
		{},
		{"", "製表人: Amy"},
		{"編 號", "日", "狀態"},
		{"A1", "46023", "Open"},
	}

	idx, err := FindHeaderRow(rows, "編號", DefaultScanLimit)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestFindHeaderRow_RespectsScanLimit(t *testing.T) {
	rows := make([][]string, 0, 6)
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{"note"})
	}
	rows = append(rows, []string{"編號"})

	_, err := FindHeaderRow(rows, "編號", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderNotFound)

	idx, err := FindHeaderRow(rows, "編號", 6)
	require.NoError(t, err)
	assert.Equal(t, 5, idx)
}

func TestFindHeaderRow_NotFound(t *testing.T) {
	_, err := FindHeaderRow([][]string{{"id", "date"}}, "編號", 0)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}
