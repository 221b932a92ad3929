package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/internal/storage/storagetest"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, newTestStore)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dues.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0755))

	first, err := RunMigrations(dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	second, err := RunMigrations(dbPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeleteMember_ReferencedByExpense(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	alice := storagetest.AddMember(t, store, "Alice")
	bob := storagetest.AddMember(t, store, "Bob")
	storagetest.AddExpense(t, store, alice, "Food", 100, map[*models.Member]string{bob: "10"})

	// Foreign keys back up the service-level check.
	assert.Error(t, store.DeleteMember(ctx, bob.ID))

	_, err := store.GetMember(ctx, bob.ID)
	assert.NoError(t, err)
}

func TestListExpenses_SplitsLoadedAcrossBatches(t *testing.T) {
	batch := splitBatchSize
	splitBatchSize = 3
	t.Cleanup(func() { splitBatchSize = batch })

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	alice := storagetest.AddMember(t, store, "Alice")
	bob := storagetest.AddMember(t, store, "Bob")
	for date := int64(1); date <= 10; date++ {
		storagetest.AddExpense(t, store, alice, "Food", date, map[*models.Member]string{alice: "1", bob: "2"})
	}

	expenses, total, err := store.ListExpenses(ctx, models.ExpenseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, expenses, 10)
	for _, e := range expenses {
		assert.Len(t, e.Splits, 2, "expense on day %d", e.Date)
		assert.True(t, e.SplitTotal().Equal(e.TotalAmount))
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
