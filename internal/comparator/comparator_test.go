package comparator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/columns"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var ledgerHeader = []interface{}{"編號", "日", "狀態", "產品", "Qty pc", "Qty kW", "案名", "客戶"}

func writeLedger(t *testing.T, dir, name string, rows ...[]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	all := append([][]interface{}{{"2026 出貨排程"}, ledgerHeader}, rows...)
	for i, row := range all {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func newComparator() (*Comparator, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(config.Default(), logger), hook
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	baseline := writeLedger(t, dir, "baseline.xlsx",
		[]interface{}{"A1", 46023, "Open", "M10", 10, 4.5, "台南案", "Acme"},
		[]interface{}{"A2", 46024, "Open", "M10", 5, 2, "高雄案", "Acme"},
		[]interface{}{"2026/01", nil, nil, nil, 15, 6.5},
		[]interface{}{"R1", 46030, "Open", "M20", 1, 1, "屏東案", "Globex"},
	)
	updated := writeLedger(t, dir, "updated.xlsx",
		[]interface{}{"A1", "2026/01/01", "Closed", "M10", 10, 4.5, "台南案", "Acme"},
		[]interface{}{" A2 ", 46024, "Open", "M10", "5", 2, "高雄案", "Acme"},
		[]interface{}{"2026/01", nil, nil, nil, 16, 6.5},
		[]interface{}{"N1", 46040, "Open", "M30", 3, 1, "嘉義案", "Initech"},
	)

	c, hook := newComparator()
	result, err := c.Run(context.Background(), baseline, updated)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Positive(t, result.Elapsed)
	assert.Equal(t, 2, result.Baseline.HeaderRow)
	assert.Empty(t, result.Warnings)

	diffs := result.Comparison
	require.Len(t, diffs.Modified, 2)

	assert.Equal(t, "A1", diffs.Modified[0].ID)
	assert.Equal(t, []types.FieldChange{{
		Field: types.FieldStatus, Column: "狀態", OldValue: "Open", NewValue: "Closed",
	}}, diffs.Modified[0].Changes, "the date serial and the date string are equal")

	assert.True(t, diffs.Modified[1].IsSubtotal())
	assert.Equal(t, "16", diffs.Modified[1].Changes[0].NewValue)

	require.Len(t, diffs.Added, 1)
	assert.Equal(t, "N1", diffs.Added[0].ID)
	require.Len(t, diffs.Removed, 1)
	assert.Equal(t, "R1", diffs.Removed[0].ID)
	assert.Equal(t, 1, diffs.Stats.Unchanged)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Contains(t, last.Message, "2 modified, 1 added, 1 removed, 1 unchanged")
}

func TestRun_SelfComparison(t *testing.T) {
	dir := t.TempDir()
	path := writeLedger(t, dir, "ledger.xlsx",
		[]interface{}{"A1", 46023, "Open", "M10", 10, 4.5, "台南案", "Acme"},
		[]interface{}{"A1", 46023, "Open", "M10", 10, 4.5, "台南案", "Acme"},
	)

	c, hook := newComparator()
	result, err := c.Run(context.Background(), path, path)
	require.NoError(t, err)

	assert.False(t, result.Comparison.HasChanges())

	var kinds []validation.Kind
	for _, w := range result.Warnings {
		kinds = append(kinds, w.Kind)
	}
	want := []validation.Kind{validation.KindDuplicateKey, validation.KindDuplicateKey, validation.KindIdenticalInput}
	if d := cmp.Diff(want, kinds); d != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", d)
	}

	warned := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned++
		}
	}
	assert.Equal(t, 3, warned)
}

func TestRun_HeaderNotFound(t *testing.T) {
	dir := t.TempDir()
	baseline := writeLedger(t, dir, "baseline.xlsx", []interface{}{"A1"})
	updated := filepath.Join(dir, "updated.csv")
	require.NoError(t, os.WriteFile(updated, []byte("id,status\nA1,Open\n"), 0644))

	c, hook := newComparator()
	_, err := c.Run(context.Background(), baseline, updated)

	require.Error(t, err)
	assert.ErrorIs(t, err, columns.ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "updated: ")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	path := writeLedger(t, dir, "ledger.xlsx", []interface{}{"A1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newComparator()
	_, err := c.Run(ctx, path, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("編號,狀態,案名\nA1,Open,P\n,Open,P\n"), 0644))

	c, _ := newComparator()
	snap, warnings, err := c.Inspect(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, snap.Rows, 1)
	assert.Equal(t, 1, snap.Discarded)

	missing := 0
	for _, w := range warnings {
		if w.Kind == validation.KindMissingColumn {
			missing++
		}
	}
	assert.Equal(t, 4, missing, "日, 產品, Qty pc and Qty kW are absent")
}
