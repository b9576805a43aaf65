package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/model"
)

// createTestStorage opens a migrated store backed by a temp file.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err, "failed to create storage")

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx), "failed to migrate")

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestAccount(t *testing.T, store *SQLiteStorage, name string, initial model.Money) *model.Account {
	t.Helper()
	account := &model.Account{Name: name, Type: model.AccountCash, InitialBalance: initial}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func createTestCategory(t *testing.T, store *SQLiteStorage, name string, parentID *int64) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, ParentID: parentID}
	require.NoError(t, store.CreateCategory(context.Background(), category))
	return category
}

func testDate(day int) time.Time {
	return time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSubscribeFiresOnMutation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var notified int
	cancel := store.Subscribe(func() { notified++ })

	createTestAccount(t, store, "Cash", 0)
	assert.Equal(t, 1, notified, "create should notify")

	account := createTestAccount(t, store, "Bank", 0)
	assert.Equal(t, 2, notified)

	cancel()
	require.NoError(t, store.DeleteAccount(ctx, account.ID))
	assert.Equal(t, 2, notified, "canceled subscription should not fire")
}

func TestSubscribeNotFiredOnFailedMutation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var notified int
	cancel := store.Subscribe(func() { notified++ })
	defer cancel()

	err := store.DeleteAccount(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, 0, notified)
}
