package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

func TestDateSerial(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   string
		ok     bool
	}{
		{name: "new year 2026", serial: 46023, want: "2026/01/01", ok: true},
		{name: "unix epoch neighbour", serial: 36526, want: "2000/01/01", ok: true},
		{name: "fractional day keeps date", serial: 46023.75, want: "2026/01/01", ok: true},
		{name: "lower bound exclusive", serial: 30000, ok: false},
		{name: "upper bound exclusive", serial: 60000, ok: false},
		{name: "plain quantity", serial: 120, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateSerial(tt.serial)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForComparison(t *testing.T) {
	tests := []struct {
		name string
		cell types.Cell
		want string
	}{
		{name: "empty cell", cell: types.Cell{}, want: ""},
		{name: "blank text", cell: types.Text(" \t\n "), want: ""},
		{name: "date serial", cell: types.Number(46023), want: "2026/01/01"},
		{name: "integer quantity", cell: types.Number(10), want: "10"},
		{name: "decimal quantity", cell: types.Number(12.5), want: "12.5"},
		{name: "numeric text is not a date", cell: types.Text("46023"), want: "46023"},
		{name: "interior spaces", cell: types.Text("A 1 2"), want: "A12"},
		{name: "nbsp and bom", cell: types.Text("\uFEFFOpen\u00A0"), want: "Open"},
		{name: "zero width", cell: types.Text("Clo\u200Bsed\u200D"), want: "Closed"},
		{name: "ideographic space", cell: types.Text("出貨\u3000完成"), want: "出貨完成"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForComparison(tt.cell))
		})
	}
}

func TestForComparison_Idempotent(t *testing.T) {
	values := []types.Cell{
		{},
		types.Text("  A1 "),
		types.Text("\u200B"),
		types.Text("2026 / 01 / 01"),
		types.Number(46023),
		types.Number(3.25),
		types.Text("Qty\tpc\r\n"),
	}

	for _, v := range values {
		once := ForComparison(v)
		twice := ForComparison(types.Text(once))
		assert.Equal(t, once, twice, "value %#v", v)
	}
}

func TestForComparison_WhitespaceInvariance(t *testing.T) {
	base := ForComparison(types.Text("Closed"))
	variants := []string{
		" Closed",
		"Closed ",
		"Clo sed",
		"\tClosed\n",
		"C\u200Blosed",
		"\u00A0Closed\uFEFF",
	}

	for _, v := range variants {
		assert.Equal(t, base, ForComparison(types.Text(v)), "variant %q", v)
	}
}

func TestDateSerialEquivalence(t *testing.T) {
	assert.Equal(t, Key("2026/01/01"), ForComparison(types.Number(46023)))
}

func TestDisplay_KeepsInteriorSpacing(t *testing.T) {
	assert.Equal(t, "Solar Farm A", Display(types.Text("  Solar Farm A  ")))
	assert.Equal(t, "2026/01/01", Display(types.Number(46023)))
	assert.Equal(t, "", Display(types.Cell{}))
}
