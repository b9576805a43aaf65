package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

var entryDate = time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)

func ptr(v int64) *int64 { return &v }

func requireCode(t *testing.T, err error, code common.ValidationCode) {
	t.Helper()
	require.Error(t, err)
	verr, ok := common.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, code, verr.Code)
}

func TestExpenseFlowWithLeafCategory(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)
	assert.Equal(t, FieldAccount, s.Field())

	s.SelectAccount(1)
	assert.Equal(t, FieldCategory, s.Field())

	s.SelectCategory(10, false)
	assert.Equal(t, FieldAmount, s.Field())

	s.SetAmount("12.50")
	txn, err := s.Save()
	require.NoError(t, err)

	assert.Equal(t, model.TypeExpense, txn.Type)
	assert.Equal(t, model.Money(1250), txn.Amount)
	require.NotNil(t, txn.CategoryID)
	assert.Equal(t, int64(10), *txn.CategoryID)
	assert.Nil(t, txn.SubcategoryID, "leaf category leaves subcategory unset")
	assert.Empty(t, txn.ID, "new entry targets an insert")
}

func TestExpenseFlowWithSubcategory(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)

	s.SelectAccount(1)
	s.SelectCategory(10, true)
	assert.Equal(t, FieldSubcategory, s.Field())
	assert.Nil(t, s.Draft().SubcategoryID, "pending a choice")

	s.SelectSubcategory(42)
	assert.Equal(t, FieldAmount, s.Field())

	s.SetAmount("8")
	txn, err := s.Save()
	require.NoError(t, err)
	require.NotNil(t, txn.CategoryID)
	assert.Equal(t, int64(10), *txn.CategoryID, "parent stays the top-level category")
	require.NotNil(t, txn.SubcategoryID)
	assert.Equal(t, int64(42), *txn.SubcategoryID)
}

func TestReselectingCategoryClearsSubcategory(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)
	s.SelectAccount(1)
	s.SelectCategory(10, true)
	s.SelectSubcategory(42)

	// Picking a different parent discards the stale child.
	s.SetCurrentField(FieldCategory)
	s.SelectCategory(11, true)
	assert.Nil(t, s.Draft().SubcategoryID)
	assert.Equal(t, FieldSubcategory, s.Field())
}

func TestTransferFlow(t *testing.T) {
	s := NewSession(model.TypeTransfer, entryDate)

	s.SelectAccount(1)
	assert.Equal(t, FieldToAccount, s.Field())

	s.SelectToAccount(2)
	assert.Equal(t, FieldAmount, s.Field())

	s.SetAmount("30")
	txn, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, model.TypeTransfer, txn.Type)
	assert.Nil(t, txn.CategoryID)
	require.NotNil(t, txn.ToAccountID)
	assert.Equal(t, int64(2), *txn.ToAccountID)
}

func TestTypeSwitchClearing(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)
	s.SelectAccount(1)
	s.SelectCategory(10, true)
	s.SelectSubcategory(42)

	// Switching to transfer clears category fields, keeps the active field.
	before := s.Field()
	s.SetType(model.TypeTransfer)
	d := s.Draft()
	assert.Nil(t, d.CategoryID)
	assert.Nil(t, d.SubcategoryID)
	assert.Equal(t, before, s.Field(), "type switch preserves the active field")

	s.SelectToAccount(2)

	// Switching back clears the transfer-only field; categories stay cleared.
	s.SetType(model.TypeExpense)
	d = s.Draft()
	assert.Nil(t, d.ToAccountID)
	assert.Nil(t, d.CategoryID)
	assert.Nil(t, d.SubcategoryID)

	// Category is required again after the round trip.
	s.SetAmount("5")
	_, err := s.Save()
	requireCode(t, err, common.CodeMissingCategory)
}

func TestSaveValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *Session
		code  common.ValidationCode
	}{
		{
			name:  "bad amount checked first",
			setup: func() *Session { return NewSession(model.TypeExpense, entryDate) },
			code:  common.CodeInvalidAmount,
		},
		{
			name: "zero amount",
			setup: func() *Session {
				s := NewSession(model.TypeExpense, entryDate)
				s.SetAmount("0")
				return s
			},
			code: common.CodeInvalidAmount,
		},
		{
			name: "missing account",
			setup: func() *Session {
				s := NewSession(model.TypeExpense, entryDate)
				s.SetAmount("5")
				return s
			},
			code: common.CodeMissingAccount,
		},
		{
			name: "transfer missing destination",
			setup: func() *Session {
				s := NewSession(model.TypeTransfer, entryDate)
				s.SelectAccount(1)
				s.SetAmount("5")
				return s
			},
			code: common.CodeMissingDestination,
		},
		{
			name: "transfer to same account",
			setup: func() *Session {
				s := NewSession(model.TypeTransfer, entryDate)
				s.SelectAccount(1)
				s.SelectToAccount(1)
				s.SetAmount("5")
				return s
			},
			code: common.CodeSameAccount,
		},
		{
			name: "missing category",
			setup: func() *Session {
				s := NewSession(model.TypeIncome, entryDate)
				s.SelectAccount(1)
				s.SetAmount("5")
				return s
			},
			code: common.CodeMissingCategory,
		},
		{
			name: "parent with children needs a subcategory",
			setup: func() *Session {
				s := NewSession(model.TypeExpense, entryDate)
				s.SelectAccount(1)
				s.SelectCategory(10, true)
				s.SetAmount("5")
				return s
			},
			code: common.CodeMissingSubcategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.setup().Save()
			requireCode(t, err, tt.code)
		})
	}
}

func TestEditSession(t *testing.T) {
	original := model.Transaction{
		ID:         "txn-1",
		Type:       model.TypeExpense,
		Amount:     1250,
		Note:       "lunch",
		Date:       entryDate,
		AccountID:  ptr(1),
		CategoryID: ptr(10),
	}

	s := EditSession(original, false)
	assert.Equal(t, FieldNone, s.Field(), "edit flow starts unfocused")
	assert.True(t, s.IsEdit())
	assert.Equal(t, "12.50", s.Draft().AmountInput)

	s.SetCurrentField(FieldAmount)
	s.SetAmount("20")

	txn, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, "txn-1", txn.ID, "edit targets the original entry")
	assert.Equal(t, model.Money(2000), txn.Amount)
	assert.Equal(t, "lunch", txn.Note)
}

func TestCopySession(t *testing.T) {
	original := model.Transaction{
		ID:         "txn-1",
		Type:       model.TypeExpense,
		Amount:     1250,
		Date:       time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		AccountID:  ptr(1),
		CategoryID: ptr(10),
	}

	today := entryDate
	s := CopySession(original, today)
	assert.False(t, s.IsEdit(), "copy always targets an insert")
	assert.Equal(t, FieldAccount, s.Field())

	txn, err := s.Save()
	require.NoError(t, err)
	assert.Empty(t, txn.ID, "never reuses the source ID")
	assert.Equal(t, today, txn.Date)
	assert.Equal(t, model.Money(1250), txn.Amount)

	// Zero date keeps the original.
	s = CopySession(original, time.Time{})
	txn, err = s.Save()
	require.NoError(t, err)
	assert.Equal(t, original.Date, txn.Date)
}

func TestContinueResetsForRapidEntry(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)
	s.SelectAccount(1)
	s.SelectCategory(10, false)
	s.SetAmount("5")
	s.SetNote("coffee")

	_, err := s.Save()
	require.NoError(t, err)

	s.Continue()
	d := s.Draft()
	assert.Empty(t, d.AmountInput)
	assert.Empty(t, d.Note)
	assert.Nil(t, d.CategoryID)
	assert.Nil(t, d.SubcategoryID)
	assert.Equal(t, model.TypeExpense, d.Type, "type preserved")
	assert.Equal(t, entryDate, d.Date, "date preserved")
	require.NotNil(t, d.AccountID)
	assert.Equal(t, int64(1), *d.AccountID, "account preserved")
	assert.Equal(t, FieldAccount, s.Field())

	// Saving again without a category fails: the reset really cleared it.
	s.SetAmount("7")
	_, err = s.Save()
	requireCode(t, err, common.CodeMissingCategory)
}

func TestSetCurrentFieldIsAlwaysLegal(t *testing.T) {
	s := NewSession(model.TypeExpense, entryDate)
	for _, f := range []Field{FieldNote, FieldDate, FieldAccount, FieldSubcategory, FieldNone} {
		s.SetCurrentField(f)
		assert.Equal(t, f, s.Field())
	}
}
