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

const transactionColumns = "id, type, amount, note, category_id, subcategory_id, account_id, to_account_id, date, created_at"

// InsertTransaction stores a validated transaction. The ledger validates
// invariants before calling this; the store only checks basic shape.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, type, amount, note, category_id, subcategory_id, account_id, to_account_id, date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, string(txn.Type), int64(txn.Amount), txn.Note,
			nullableID(txn.CategoryID), nullableID(txn.SubcategoryID),
			nullableID(txn.AccountID), nullableID(txn.ToAccountID),
			txn.Date, txn.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}

		slog.Debug("inserted transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount)
		return nil
	})
}

// UpdateTransaction replaces the whole stored record for the transaction's
// ID. CreatedAt is preserved from the original insert.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET type = ?, amount = ?, note = ?, category_id = ?, subcategory_id = ?,
			    account_id = ?, to_account_id = ?, date = ?
			WHERE id = ?`,
			string(txn.Type), int64(txn.Amount), txn.Note,
			nullableID(txn.CategoryID), nullableID(txn.SubcategoryID),
			nullableID(txn.AccountID), nullableID(txn.ToAccountID),
			txn.Date, txn.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
		}
		return requireRowAffected(result, "transaction", txn.ID)
	})
}

// DeleteTransaction removes a transaction from the log.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", id, err)
		}
		return requireRowAffected(result, "transaction", id)
	})
}

// GetTransactionByID returns a transaction or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// GetTransactionsByDateRange returns transactions with start <= date <= end,
// newest first (date DESC, then created_at DESC).
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}

	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, created_at DESC`, start, end)
}

// GetAllTransactions returns the whole log, newest first.
func (s *SQLiteStorage) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY date DESC, created_at DESC`)
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var txnType string
	var amount int64
	var categoryID, subcategoryID, accountID, toAccountID sql.NullInt64

	if err := row.Scan(&txn.ID, &txnType, &amount, &txn.Note,
		&categoryID, &subcategoryID, &accountID, &toAccountID,
		&txn.Date, &txn.CreatedAt); err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txnType)
	txn.Amount = model.Money(amount)
	if categoryID.Valid {
		txn.CategoryID = &categoryID.Int64
	}
	if subcategoryID.Valid {
		txn.SubcategoryID = &subcategoryID.Int64
	}
	if accountID.Valid {
		txn.AccountID = &accountID.Int64
	}
	if toAccountID.Valid {
		txn.ToAccountID = &toAccountID.Int64
	}
	return &txn, nil
}
