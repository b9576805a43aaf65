package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// CreateCategory validates the depth invariant and stores the category. A
// parent, when given, must exist and itself be a root: the tree never grows
// past two levels.
func (l *Ledger) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := l.checkParent(ctx, category); err != nil {
		return err
	}
	return l.store.CreateCategory(ctx, category)
}

// UpdateCategory replaces the stored record after re-checking the depth
// invariant.
func (l *Ledger) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := l.checkParent(ctx, category); err != nil {
		return err
	}
	if category.ParentID != nil && *category.ParentID == category.ID {
		return common.NewValidationError(common.CodeInvalidCategory, "category cannot be its own parent")
	}
	return l.store.UpdateCategory(ctx, category)
}

// DeleteCategory removes a childless category. If the category still has
// subcategories the delete fails with ErrHasSubcategories and nothing is
// mutated. Transactions referencing a deleted category become uncategorized;
// they are never deleted.
func (l *Ledger) DeleteCategory(ctx context.Context, id int64) error {
	hasChildren, err := l.store.HasSubcategories(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check subcategories: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("category %d: %w", id, common.ErrHasSubcategories)
	}
	return l.store.DeleteCategory(ctx, id)
}

// CategoryByID returns a category or common.ErrNotFound.
func (l *Ledger) CategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	return l.store.GetCategoryByID(ctx, id)
}

// RootCategories lists top-level categories, defaults first then alphabetical.
func (l *Ledger) RootCategories(ctx context.Context) ([]model.Category, error) {
	return l.store.GetRootCategories(ctx)
}

// Subcategories lists the children of a root category, same ordering.
func (l *Ledger) Subcategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	return l.store.GetSubcategories(ctx, parentID)
}

// AllCategories lists every category, same ordering.
func (l *Ledger) AllCategories(ctx context.Context) ([]model.Category, error) {
	return l.store.GetAllCategories(ctx)
}

// checkParent enforces the two-level depth invariant.
func (l *Ledger) checkParent(ctx context.Context, category *model.Category) error {
	if category == nil || category.ParentID == nil {
		return nil
	}

	parent, err := l.store.GetCategoryByID(ctx, *category.ParentID)
	if err != nil {
		return fmt.Errorf("failed to load parent category: %w", err)
	}
	if !parent.IsRoot() {
		return common.NewValidationError(common.CodeInvalidCategory,
			"category %q cannot nest under subcategory %q", category.Name, parent.Name)
	}
	return nil
}
