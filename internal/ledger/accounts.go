package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/model"
)

// CreateAccount stores a new account.
func (l *Ledger) CreateAccount(ctx context.Context, account *model.Account) error {
	return l.store.CreateAccount(ctx, account)
}

// UpdateAccount replaces the stored record.
func (l *Ledger) UpdateAccount(ctx context.Context, account *model.Account) error {
	return l.store.UpdateAccount(ctx, account)
}

// DeleteAccount removes an account. Transactions referencing it keep living
// with their account references cleared.
func (l *Ledger) DeleteAccount(ctx context.Context, id int64) error {
	return l.store.DeleteAccount(ctx, id)
}

// SetDefaultAccount makes id the single default account. The store applies
// the clear-then-set as one atomic operation.
func (l *Ledger) SetDefaultAccount(ctx context.Context, id int64) error {
	return l.store.PromoteDefaultAccount(ctx, id)
}

// AccountByID returns an account or common.ErrNotFound.
func (l *Ledger) AccountByID(ctx context.Context, id int64) (*model.Account, error) {
	return l.store.GetAccountByID(ctx, id)
}

// DefaultAccount returns the current default account, or common.ErrNotFound.
func (l *Ledger) DefaultAccount(ctx context.Context) (*model.Account, error) {
	return l.store.GetDefaultAccount(ctx)
}

// Accounts lists every account, defaults first then alphabetical.
func (l *Ledger) Accounts(ctx context.Context) ([]model.Account, error) {
	return l.store.GetAllAccounts(ctx)
}

// BalanceOf derives an account's running balance from the transaction log:
//
//	initial + income(id) − expense(id) − transferOut(id) + transferIn(id)
func (l *Ledger) BalanceOf(ctx context.Context, id int64) (model.Money, error) {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return 0, err
	}

	txns, err := l.store.GetAllTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}

	balance := account.InitialBalance
	for i := range txns {
		txn := &txns[i]
		switch txn.Type {
		case model.TypeIncome:
			if refs(txn.AccountID, id) {
				balance += txn.Amount
			}
		case model.TypeExpense:
			if refs(txn.AccountID, id) {
				balance -= txn.Amount
			}
		case model.TypeTransfer:
			if refs(txn.AccountID, id) {
				balance -= txn.Amount
			}
			if refs(txn.ToAccountID, id) {
				balance += txn.Amount
			}
		}
	}
	return balance, nil
}

// TotalBalance sums initial balances plus all income minus all expenses.
// Transfers are deliberately omitted: each transfer debits and credits
// accounts inside the same closed set, so the terms cancel exactly. This
// shortcut is only valid for the total across all accounts, never for an
// individual account's balance.
func (l *Ledger) TotalBalance(ctx context.Context) (model.Money, error) {
	accounts, err := l.store.GetAllAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load accounts: %w", err)
	}

	var total model.Money
	for _, account := range accounts {
		total += account.InitialBalance
	}

	txns, err := l.store.GetAllTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}
	for i := range txns {
		switch txns[i].Type {
		case model.TypeIncome:
			total += txns[i].Amount
		case model.TypeExpense:
			total -= txns[i].Amount
		case model.TypeTransfer:
			// Internal movement; cancels within the account set.
		}
	}
	return total, nil
}

func refs(field *int64, id int64) bool {
	return field != nil && *field == id
}
