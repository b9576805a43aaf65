package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// AddTransaction validates a draft transaction and commits it to the log,
// returning the assigned ID. Validation happens before the store is touched;
// on failure nothing is mutated.
func (l *Ledger) AddTransaction(ctx context.Context, txn *model.Transaction) (string, error) {
	if txn == nil {
		return "", fmt.Errorf("transaction cannot be nil")
	}
	if err := l.validate(ctx, txn); err != nil {
		return "", err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	txn.Date = model.NormalizeDate(txn.Date)
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	if err := l.store.InsertTransaction(ctx, txn); err != nil {
		return "", err
	}
	return txn.ID, nil
}

// UpdateTransaction validates and replaces an existing log entry.
func (l *Ledger) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction cannot be nil")
	}
	if txn.ID == "" {
		return fmt.Errorf("transaction ID is required for update")
	}
	if err := l.validate(ctx, txn); err != nil {
		return err
	}

	txn.Date = model.NormalizeDate(txn.Date)
	return l.store.UpdateTransaction(ctx, txn)
}

// DeleteTransaction removes a log entry.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	return l.store.DeleteTransaction(ctx, id)
}

// TransactionByID returns a log entry or common.ErrNotFound.
func (l *Ledger) TransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	return l.store.GetTransactionByID(ctx, id)
}

// TransactionsByDateRange returns entries with start <= date <= end, newest
// first.
func (l *Ledger) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	return l.store.GetTransactionsByDateRange(ctx,
		model.NormalizeDate(start), model.NormalizeDate(end))
}

// AllTransactions returns the whole log, newest first.
func (l *Ledger) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return l.store.GetAllTransactions(ctx)
}

// validate runs the structural invariants plus the referential check that a
// subcategory is actually a child of the transaction's top-level category.
func (l *Ledger) validate(ctx context.Context, txn *model.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	if txn.SubcategoryID == nil {
		return nil
	}

	sub, err := l.store.GetCategoryByID(ctx, *txn.SubcategoryID)
	if err != nil {
		return fmt.Errorf("failed to load subcategory: %w", err)
	}
	if sub.ParentID == nil || *sub.ParentID != *txn.CategoryID {
		return common.NewValidationError(common.CodeInvalidCategory,
			"subcategory %q is not a child of category %d", sub.Name, *txn.CategoryID)
	}
	return nil
}
