package model

import "time"

// AccountType classifies an account for display and grouping.
type AccountType string

// Supported account types.
const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountCreditCard AccountType = "credit_card"
	AccountSavings    AccountType = "savings"
	AccountWallet     AccountType = "wallet"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCash, AccountBank, AccountCreditCard, AccountSavings, AccountWallet:
		return true
	default:
		return false
	}
}

// Account holds money. Its running balance is derived from the transaction
// log on top of InitialBalance, never stored.
type Account struct {
	CreatedAt      time.Time
	Name           string
	Icon           string
	Type           AccountType
	ID             int64
	Color          int64
	InitialBalance Money
	IsDefault      bool
}
