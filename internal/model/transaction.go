package model

import (
	"time"

	"github.com/Veraticus/tally/internal/common"
)

// TransactionType distinguishes the three kinds of log entries.
type TransactionType string

// Transaction types.
const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return true
	default:
		return false
	}
}

// Transaction is a single entry in the ledger's log. Amount is always
// positive; Type and the account fields carry the direction. A transfer
// references two distinct accounts and never a category. An expense or
// income references one account and a top-level category, optionally
// narrowed by a subcategory that must be a child of that category.
type Transaction struct {
	Date          time.Time
	CreatedAt     time.Time
	ID            string
	Note          string
	Type          TransactionType
	CategoryID    *int64
	SubcategoryID *int64
	AccountID     *int64
	ToAccountID   *int64
	Amount        Money
}

// Validate checks the structural invariants that hold for every committed
// transaction. The referential check that SubcategoryID is actually a child
// of CategoryID requires the store and happens in the ledger.
func (t *Transaction) Validate() error {
	if !ValidTransactionType(t.Type) {
		return common.NewValidationError(common.CodeInvalidType, "unknown transaction type %q", t.Type)
	}
	if t.Amount <= 0 {
		return common.NewValidationError(common.CodeInvalidAmount, "amount must be greater than zero")
	}
	if t.Date.IsZero() {
		return common.NewValidationError(common.CodeInvalidType, "transaction date is required")
	}

	if t.Type == TypeTransfer {
		if t.CategoryID != nil || t.SubcategoryID != nil {
			return common.NewValidationError(common.CodeInvalidCategory, "transfers cannot carry a category")
		}
		if t.AccountID == nil {
			return common.NewValidationError(common.CodeMissingAccount, "transfer requires a source account")
		}
		if t.ToAccountID == nil {
			return common.NewValidationError(common.CodeMissingDestination, "transfer requires a destination account")
		}
		if *t.AccountID == *t.ToAccountID {
			return common.NewValidationError(common.CodeSameAccount, "transfer source and destination must differ")
		}
		return nil
	}

	if t.ToAccountID != nil {
		return common.NewValidationError(common.CodeInvalidCategory, "%s cannot reference a destination account", t.Type)
	}
	if t.SubcategoryID != nil && t.CategoryID == nil {
		return common.NewValidationError(common.CodeInvalidCategory, "subcategory set without its parent category")
	}
	return nil
}

// NormalizeDate truncates a calendar date to UTC midnight so date-range
// queries are stable regardless of the wall clock the entry was made at.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
