// Package report computes category and period aggregations over a loaded
// transaction set. Every function here is a pure fold: no I/O, no mutation,
// safe to call concurrently, and degrading to zero/empty outputs on empty
// input.
package report

import (
	"sort"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Uncategorized is the CategoryTotals map key for transactions whose
// category reference was cleared. Real category IDs start at 1.
const Uncategorized int64 = 0

// CategoryBreakdown is one row of a percentage breakdown.
type CategoryBreakdown struct {
	CategoryID int64
	Amount     model.Money
	Percentage float64
}

// TotalByType sums the amounts of all transactions of the given type.
func TotalByType(txns []model.Transaction, typ model.TransactionType) model.Money {
	var total model.Money
	for i := range txns {
		if txns[i].Type == typ {
			total += txns[i].Amount
		}
	}
	return total
}

// CategoryTotals groups amounts of the given type strictly by the top-level
// category: a transaction recorded under a subcategory still aggregates
// under its parent, never under the subcategory itself. Transactions without
// a category land under the Uncategorized key.
func CategoryTotals(txns []model.Transaction, typ model.TransactionType) map[int64]model.Money {
	totals := make(map[int64]model.Money)
	for i := range txns {
		if txns[i].Type != typ {
			continue
		}
		key := Uncategorized
		if txns[i].CategoryID != nil {
			key = *txns[i].CategoryID
		}
		totals[key] += txns[i].Amount
	}
	return totals
}

// Breakdown converts category totals into percentage rows, sorted by amount
// descending. Ties break by ascending category ID so the order is
// deterministic. When the grand total is zero every percentage is zero.
func Breakdown(totals map[int64]model.Money) []CategoryBreakdown {
	var sum model.Money
	for _, amount := range totals {
		sum += amount
	}

	rows := make([]CategoryBreakdown, 0, len(totals))
	for id, amount := range totals {
		row := CategoryBreakdown{CategoryID: id, Amount: amount}
		if sum > 0 {
			row.Percentage = float64(amount) / float64(sum) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows
}

// MonthlyTotals groups the given year's transactions by calendar month and
// type. Months or types with no transactions are simply absent; callers
// treat absence as zero.
func MonthlyTotals(txns []model.Transaction, year int) map[time.Month]map[model.TransactionType]model.Money {
	months := make(map[time.Month]map[model.TransactionType]model.Money)
	for i := range txns {
		if txns[i].Date.Year() != year {
			continue
		}
		month := txns[i].Date.Month()
		byType := months[month]
		if byType == nil {
			byType = make(map[model.TransactionType]model.Money)
			months[month] = byType
		}
		byType[txns[i].Type] += txns[i].Amount
	}
	return months
}
