package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// categoryColumns is the scan order shared by every category query.
const categoryColumns = "id, name, icon, color, is_default, parent_id, created_at"

// categoryOrder lists defaults first, then alphabetically by name. This
// ordering is a contract: reports and pickers all assume it.
const categoryOrder = "ORDER BY is_default DESC, name COLLATE NOCASE ASC"

// CreateCategory inserts a new category and assigns its ID.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, icon, color, is_default, parent_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			category.Name, category.Icon, category.Color,
			category.IsDefault, nullableID(category.ParentID), category.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get category ID: %w", err)
		}
		category.ID = id

		slog.Debug("created category", "id", id, "name", category.Name)
		return nil
	})
}

// UpdateCategory replaces the whole stored record for the category's ID.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE categories
			SET name = ?, icon = ?, color = ?, is_default = ?, parent_id = ?
			WHERE id = ?`,
			category.Name, category.Icon, category.Color,
			category.IsDefault, nullableID(category.ParentID), category.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		return requireRowAffected(result, "category", category.ID)
	})
}

// DeleteCategory removes a childless category. Transactions referencing it
// become uncategorized in the same database transaction; they are never
// deleted. The has-children check belongs to the ledger, which calls
// HasSubcategories before this.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = NULL, subcategory_id = NULL WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unassign category from transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET subcategory_id = NULL WHERE subcategory_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unassign subcategory from transactions: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if err := requireRowAffected(result, "category", id); err != nil {
			return err
		}

		slog.Debug("deleted category", "id", id)
		return nil
	})
}

// GetCategoryByID returns a category or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// GetRootCategories returns all top-level categories, defaults first.
func (s *SQLiteStorage) GetRootCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL `+categoryOrder)
}

// GetSubcategories returns the children of a root category, defaults first.
func (s *SQLiteStorage) GetSubcategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = ? `+categoryOrder, parentID)
}

// HasSubcategories reports whether any category names id as its parent.
func (s *SQLiteStorage) HasSubcategories(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count subcategories: %w", err)
	}
	return count > 0, nil
}

// GetAllCategories returns every category, defaults first.
func (s *SQLiteStorage) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories `+categoryOrder)
}

func (s *SQLiteStorage) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var parentID sql.NullInt64
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color,
		&cat.IsDefault, &parentID, &cat.CreatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		cat.ParentID = &parentID.Int64
	}
	return &cat, nil
}

// nullableID converts an optional ID to its SQL representation.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// requireRowAffected converts a zero-row mutation into ErrNotFound.
func requireRowAffected(result sql.Result, entity string, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", entity, id, common.ErrNotFound)
	}
	return nil
}
