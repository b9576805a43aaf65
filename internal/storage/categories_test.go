package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

func TestCategoryCRUD(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat := &model.Category{Name: "Groceries", Icon: "cart", Color: 0xFF8800}
	require.NoError(t, store.CreateCategory(ctx, cat))
	assert.NotZero(t, cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())

	got, err := store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, "cart", got.Icon)
	assert.Nil(t, got.ParentID)

	cat.Name = "Food"
	cat.IsDefault = true
	require.NoError(t, store.UpdateCategory(ctx, cat))

	got, err = store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)
	assert.True(t, got.IsDefault)

	require.NoError(t, store.DeleteCategory(ctx, cat.ID))
	_, err = store.GetCategoryByID(ctx, cat.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCategoryValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.CreateCategory(ctx, &model.Category{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	err = store.CreateCategory(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	err = store.UpdateCategory(ctx, &model.Category{ID: 9999, Name: "Ghost"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCategoryListingOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	createTestCategory(t, store, "Transport", nil)
	createTestCategory(t, store, "groceries", nil)
	standard := &model.Category{Name: "Salary", IsDefault: true}
	require.NoError(t, store.CreateCategory(ctx, standard))

	roots, err := store.GetRootCategories(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 3)

	// Defaults first, then case-insensitive alphabetical.
	assert.Equal(t, "Salary", roots[0].Name)
	assert.Equal(t, "groceries", roots[1].Name)
	assert.Equal(t, "Transport", roots[2].Name)
}

func TestSubcategoryQueries(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	food := createTestCategory(t, store, "Food", nil)
	transport := createTestCategory(t, store, "Transport", nil)
	createTestCategory(t, store, "Restaurants", &food.ID)
	createTestCategory(t, store, "Groceries", &food.ID)

	children, err := store.GetSubcategories(ctx, food.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Groceries", children[0].Name)
	assert.Equal(t, "Restaurants", children[1].Name)

	hasChildren, err := store.HasSubcategories(ctx, food.ID)
	require.NoError(t, err)
	assert.True(t, hasChildren)

	hasChildren, err = store.HasSubcategories(ctx, transport.ID)
	require.NoError(t, err)
	assert.False(t, hasChildren)

	roots, err := store.GetRootCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 2, "subcategories must not appear among roots")

	all, err := store.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteCategoryClearsTransactionReferences(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	account := createTestAccount(t, store, "Cash", 0)
	food := createTestCategory(t, store, "Food", nil)
	restaurants := createTestCategory(t, store, "Restaurants", &food.ID)

	txn := &model.Transaction{
		ID:            "txn-1",
		Type:          model.TypeExpense,
		Amount:        1250,
		Date:          testDate(10),
		AccountID:     &account.ID,
		CategoryID:    &food.ID,
		SubcategoryID: &restaurants.ID,
	}
	require.NoError(t, store.InsertTransaction(ctx, txn))

	// Deleting the subcategory clears only the subcategory reference.
	require.NoError(t, store.DeleteCategory(ctx, restaurants.ID))

	got, err := store.GetTransactionByID(ctx, "txn-1")
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, food.ID, *got.CategoryID)
	assert.Nil(t, got.SubcategoryID)

	// Deleting the parent makes the transaction uncategorized but keeps it.
	require.NoError(t, store.DeleteCategory(ctx, food.ID))

	got, err = store.GetTransactionByID(ctx, "txn-1")
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.SubcategoryID)
	assert.Equal(t, model.Money(1250), got.Amount)
}

func TestDeleteMissingCategory(t *testing.T) {
	store := createTestStorage(t)

	err := store.DeleteCategory(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
