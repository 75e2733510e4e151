package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
	"github.com/centsible/centsible/internal/storage"
)

const genericCSV = `type,description,amount,date
Income,Paycheck,2200,2026-01-01
Expense,Groceries run,84.10,2026-01-03
Expense,Electric bill,120.55,2026-01-05
`

const signedCSV = `date,description,amount
2026-01-02,KROGER #441,-56.20
2026-01-06,EMPLOYER PAYROLL,1800.00
`

func createTestImporter(t *testing.T) (*Importer, service.Storage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return New(store), store
}

func TestImportFiles(t *testing.T) {
	importer, store := createTestImporter(t)
	ctx := context.Background()

	var seen []FileResult
	result, err := importer.ImportFiles(ctx, []FileInput{
		{Name: "generic.csv", Text: genericCSV, Size: int64(len(genericCSV)), LastModified: time.Now()},
		{Name: "signed.csv", Text: signedCSV, Size: int64(len(signedCSV)), LastModified: time.Now()},
	}, Options{OnFile: func(fr FileResult) { seen = append(seen, fr) }})
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 5, result.Total)
	require.Len(t, result.Files, 2)
	assert.Equal(t, 3, result.Files[0].Count)
	assert.Equal(t, 2, result.Files[1].Count)
	assert.Equal(t, result.Files, seen)

	stored, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for _, txn := range stored {
		assert.Equal(t, result.BatchID, txn.BatchID)
		assert.GreaterOrEqual(t, txn.Amount, 0.0)
	}

	batch, err := store.GetImportBatch(ctx, result.BatchID)
	require.NoError(t, err)
	assert.Equal(t, 5, batch.Count)
	require.Len(t, batch.Files, 2)
	assert.Equal(t, "generic.csv", batch.Files[0].Name)
}

func TestImportFilesDryRun(t *testing.T) {
	importer, store := createTestImporter(t)
	ctx := context.Background()

	result, err := importer.ImportFiles(ctx, []FileInput{
		{Name: "generic.csv", Text: genericCSV},
	}, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.Total)

	count, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	batches, err := store.ListImportBatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestImportFilesNoValidRows(t *testing.T) {
	importer, _ := createTestImporter(t)

	_, err := importer.ImportFiles(context.Background(), []FileInput{
		{Name: "junk.csv", Text: "this is not,a statement\n"},
	}, Options{})
	require.ErrorIs(t, err, common.ErrNoValidRows)

	_, err = importer.ImportFiles(context.Background(), nil, Options{})
	require.ErrorIs(t, err, common.ErrNoValidRows)
}

func TestImportIDsNeverCollide(t *testing.T) {
	importer, store := createTestImporter(t)
	ctx := context.Background()

	first, err := importer.ImportFiles(ctx, []FileInput{{Name: "a.csv", Text: genericCSV}}, Options{})
	require.NoError(t, err)
	second, err := importer.ImportFiles(ctx, []FileInput{{Name: "b.csv", Text: genericCSV}}, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	ids, err := store.GetTransactionIDs(ctx)
	require.NoError(t, err)
	unique := make(map[string]bool, len(ids))
	for _, id := range ids {
		require.False(t, unique[id], "duplicate id %s", id)
		unique[id] = true
	}
	assert.Len(t, ids, 6)
}

func TestImportAutoContribution(t *testing.T) {
	importer, store := createTestImporter(t)
	ctx := context.Background()

	goal := &model.Goal{
		Label:       "Emergency Fund",
		Target:      5000,
		Keyword:     "paycheck",
		AutoPercent: 10,
	}
	require.NoError(t, store.SaveGoal(ctx, goal))

	result, err := importer.ImportFiles(ctx, []FileInput{{Name: "generic.csv", Text: genericCSV}}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Contributions, 1)
	assert.Equal(t, "Emergency Fund", result.Contributions[0].GoalLabel)
	assert.InDelta(t, 220.0, result.Contributions[0].Amount, 0.001)

	got, err := store.GetGoalByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 220.0, got.Current, 0.001)
}

func TestUndoImport(t *testing.T) {
	importer, store := createTestImporter(t)
	ctx := context.Background()

	goal := &model.Goal{Label: "Vacation", Target: 2000, Keyword: "paycheck", AutoPercent: 5}
	require.NoError(t, store.SaveGoal(ctx, goal))

	result, err := importer.ImportFiles(ctx, []FileInput{{Name: "generic.csv", Text: genericCSV}}, Options{})
	require.NoError(t, err)

	deleted, err := importer.Undo(ctx, result.BatchID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	count, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := store.GetGoalByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0, got.Current, 0.001)

	_, err = store.GetImportBatch(ctx, result.BatchID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUndoUnknownBatch(t *testing.T) {
	importer, _ := createTestImporter(t)

	_, err := importer.Undo(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEffectiveFormat(t *testing.T) {
	importer := &Importer{}

	assert.Equal(t, FormatOFX, importer.effectiveFormat("statement.ofx", ""))
	assert.Equal(t, FormatOFX, importer.effectiveFormat("STATEMENT.QFX", ""))
	assert.Equal(t, FormatCSV, importer.effectiveFormat("statement.csv", ""))
	assert.Equal(t, FormatCSV, importer.effectiveFormat("statement.txt", ""))
	assert.Equal(t, FormatOFX, importer.effectiveFormat("whatever.csv", FormatOFX))
}
