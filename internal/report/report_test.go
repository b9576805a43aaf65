package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/model"
)

func ptr(v int64) *int64 { return &v }

func expense(day int, amount model.Money, categoryID, subcategoryID *int64) model.Transaction {
	return model.Transaction{
		Type:          model.TypeExpense,
		Amount:        amount,
		Date:          time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC),
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
	}
}

func income(day int, amount model.Money) model.Transaction {
	return model.Transaction{
		Type:   model.TypeIncome,
		Amount: amount,
		Date:   time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestTotalByType(t *testing.T) {
	txns := []model.Transaction{
		expense(1, 100, ptr(1), nil),
		expense(2, 250, ptr(2), nil),
		income(3, 1000),
		{Type: model.TypeTransfer, Amount: 500, Date: time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, model.Money(350), TotalByType(txns, model.TypeExpense))
	assert.Equal(t, model.Money(1000), TotalByType(txns, model.TypeIncome))
	assert.Equal(t, model.Money(500), TotalByType(txns, model.TypeTransfer))
	assert.Equal(t, model.Money(0), TotalByType(nil, model.TypeExpense))
}

func TestCategoryTotalsGroupByParent(t *testing.T) {
	txns := []model.Transaction{
		expense(1, 100, ptr(1), nil),
		expense(2, 200, ptr(1), ptr(7)), // subcategory aggregates under parent 1
		expense(3, 300, ptr(2), nil),
		expense(4, 50, nil, nil), // uncategorized
		income(5, 999),           // different type, excluded
	}

	totals := CategoryTotals(txns, model.TypeExpense)
	require.Len(t, totals, 3)
	assert.Equal(t, model.Money(300), totals[1])
	assert.Equal(t, model.Money(300), totals[2])
	assert.Equal(t, model.Money(50), totals[Uncategorized])
}

func TestCategoryTotalsSumEqualsTotalByType(t *testing.T) {
	txns := []model.Transaction{
		expense(1, 120, ptr(1), nil),
		expense(2, 340, ptr(2), ptr(5)),
		expense(3, 60, nil, nil),
		income(4, 800),
	}

	totals := CategoryTotals(txns, model.TypeExpense)
	var sum model.Money
	for _, amount := range totals {
		sum += amount
	}
	assert.Equal(t, TotalByType(txns, model.TypeExpense), sum)
}

func TestBreakdown(t *testing.T) {
	totals := map[int64]model.Money{
		1: 600,
		2: 300,
		3: 100,
	}

	rows := Breakdown(totals)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].CategoryID)
	assert.InDelta(t, 60.0, rows[0].Percentage, 0.001)
	assert.Equal(t, int64(2), rows[1].CategoryID)
	assert.InDelta(t, 30.0, rows[1].Percentage, 0.001)
	assert.Equal(t, int64(3), rows[2].CategoryID)
	assert.InDelta(t, 10.0, rows[2].Percentage, 0.001)

	var pctSum float64
	for _, row := range rows {
		pctSum += row.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 0.01)
}

func TestBreakdownTiesAreDeterministic(t *testing.T) {
	totals := map[int64]model.Money{
		9: 100,
		2: 100,
		5: 100,
	}

	rows := Breakdown(totals)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[0].CategoryID)
	assert.Equal(t, int64(5), rows[1].CategoryID)
	assert.Equal(t, int64(9), rows[2].CategoryID)
}

func TestBreakdownZeroTotal(t *testing.T) {
	rows := Breakdown(map[int64]model.Money{})
	assert.Empty(t, rows)

	rows = Breakdown(map[int64]model.Money{1: 0, 2: 0})
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Zero(t, row.Percentage)
	}
}

func TestMonthlyTotals(t *testing.T) {
	txns := []model.Transaction{
		expense(1, 100, ptr(1), nil),
		expense(15, 200, ptr(1), nil),
		income(20, 900),
		{
			Type:   model.TypeExpense,
			Amount: 400,
			Date:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Type:   model.TypeExpense,
			Amount: 777,
			Date:   time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC), // other year
		},
	}

	months := MonthlyTotals(txns, 2026)
	require.Len(t, months, 2)

	assert.Equal(t, model.Money(300), months[time.August][model.TypeExpense])
	assert.Equal(t, model.Money(900), months[time.August][model.TypeIncome])
	assert.Equal(t, model.Money(400), months[time.September][model.TypeExpense])

	_, ok := months[time.January]
	assert.False(t, ok, "empty months are absent")
}
