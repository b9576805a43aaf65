// Package service defines the persistence contracts the ledger consumes.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// CategoryStore persists the two-level category tree. Listings are ordered
// defaults-first, then alphabetically by name; every consumer relies on
// that ordering.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetRootCategories(ctx context.Context) ([]model.Category, error)
	GetSubcategories(ctx context.Context, parentID int64) ([]model.Category, error)
	HasSubcategories(ctx context.Context, id int64) (bool, error)
	GetAllCategories(ctx context.Context) ([]model.Category, error)
}

// AccountStore persists accounts. PromoteDefaultAccount must clear the old
// default and set the new one as a single atomic operation so no reader ever
// observes zero or two defaults.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id int64) error
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	GetDefaultAccount(ctx context.Context) (*model.Account, error)
	GetAllAccounts(ctx context.Context) ([]model.Account, error)
	PromoteDefaultAccount(ctx context.Context, id int64) error
}

// TransactionStore persists the transaction log. Stores assume entries have
// already been validated; the ledger never hands an invalid draft down.
// Date-range queries are inclusive of both bounds and ordered by
// (date DESC, created_at DESC).
type TransactionStore interface {
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
}

// Storage is the full persistence contract. Subscribe registers a callback
// fired after every committed mutation; the returned function cancels the
// subscription. Consumers recompute derived values (balances, reports) from
// a fresh snapshot when notified.
type Storage interface {
	CategoryStore
	AccountStore
	TransactionStore

	Subscribe(fn func()) (cancel func())
	Migrate(ctx context.Context) error
	Close() error
}
