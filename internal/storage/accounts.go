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

const accountColumns = "id, name, type, icon, color, initial_balance, is_default, created_at"

// CreateAccount inserts a new account and assigns its ID.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		// Creating an account as the default demotes any existing default
		// in the same transaction; the partial unique index would reject
		// the insert otherwise.
		if account.IsDefault {
			if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = 0 WHERE is_default = 1`); err != nil {
				return fmt.Errorf("failed to clear default account: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (name, type, icon, color, initial_balance, is_default, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			account.Name, string(account.Type), account.Icon, account.Color,
			int64(account.InitialBalance), account.IsDefault, account.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get account ID: %w", err)
		}
		account.ID = id

		slog.Debug("created account", "id", id, "name", account.Name, "type", account.Type)
		return nil
	})
}

// UpdateAccount replaces the whole stored record for the account's ID.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if account.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE accounts SET is_default = 0 WHERE is_default = 1 AND id != ?`, account.ID); err != nil {
				return fmt.Errorf("failed to clear default account: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE accounts
			SET name = ?, type = ?, icon = ?, color = ?, initial_balance = ?, is_default = ?
			WHERE id = ?`,
			account.Name, string(account.Type), account.Icon, account.Color,
			int64(account.InitialBalance), account.IsDefault, account.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		return requireRowAffected(result, "account", account.ID)
	})
}

// DeleteAccount removes an account. Transactions referencing it keep their
// other fields; the account references are cleared, never the transactions.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET account_id = NULL WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unassign account from transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET to_account_id = NULL WHERE to_account_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unassign destination account from transactions: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		if err := requireRowAffected(result, "account", id); err != nil {
			return err
		}

		slog.Debug("deleted account", "id", id)
		return nil
	})
}

// GetAccountByID returns an account or common.ErrNotFound.
func (s *SQLiteStorage) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// GetDefaultAccount returns the current default account, or
// common.ErrNotFound when none is set.
func (s *SQLiteStorage) GetDefaultAccount(ctx context.Context) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE is_default = 1`)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("default account: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query default account: %w", err)
	}
	return account, nil
}

// GetAllAccounts returns every account, defaults first then alphabetical.
func (s *SQLiteStorage) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY is_default DESC, name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan account: %w", scanErr)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// PromoteDefaultAccount clears the previous default and sets the new one in
// a single transaction, so concurrent callers can never leave zero or two
// defaults visible.
func (s *SQLiteStorage) PromoteDefaultAccount(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_default = 0 WHERE is_default = 1`); err != nil {
			return fmt.Errorf("failed to clear default account: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_default = 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to set default account: %w", err)
		}
		if err := requireRowAffected(result, "account", id); err != nil {
			return err
		}

		slog.Debug("promoted default account", "id", id)
		return nil
	})
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var account model.Account
	var accountType string
	var initialBalance int64
	if err := row.Scan(&account.ID, &account.Name, &accountType, &account.Icon,
		&account.Color, &initialBalance, &account.IsDefault, &account.CreatedAt); err != nil {
		return nil, err
	}
	account.Type = model.AccountType(accountType)
	account.InitialBalance = model.Money(initialBalance)
	return &account, nil
}
