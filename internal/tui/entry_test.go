package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/entry"
	"github.com/Veraticus/tally/internal/model"
)

func loadedModel(t *testing.T, session *entry.Session) EntryModel {
	t.Helper()
	m := NewEntryModel(nil, session)

	food := int64(10)
	updated, _ := m.Update(dataLoadedMsg{
		accounts: []model.Account{
			{ID: 1, Name: "Cash", Type: model.AccountCash},
			{ID: 2, Name: "Bank", Type: model.AccountBank},
		},
		categories: []model.Category{
			{ID: 10, Name: "Food"},
			{ID: 11, Name: "Transport"},
			{ID: 42, Name: "Restaurants", ParentID: &food},
		},
	})
	return updated.(EntryModel)
}

func press(m EntryModel, keys ...string) EntryModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(EntryModel)
	}
	return m
}

func newSession() *entry.Session {
	return entry.NewSession(model.TypeExpense, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC))
}

func TestPickerDrivesAccountSelection(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	m = press(m, "down", "enter")
	d := session.Draft()
	require.NotNil(t, d.AccountID)
	assert.Equal(t, int64(2), *d.AccountID, "second account selected")
	assert.Equal(t, entry.FieldCategory, session.Field())
}

func TestCategoryWithChildrenOpensSubcategoryPicker(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	m = press(m, "enter")  // account: Cash
	m = press(m, "enter")  // category: Food (has Restaurants)
	assert.Equal(t, entry.FieldSubcategory, session.Field())

	m = press(m, "enter") // subcategory: Restaurants
	assert.Equal(t, entry.FieldAmount, session.Field())

	d := session.Draft()
	require.NotNil(t, d.SubcategoryID)
	assert.Equal(t, int64(42), *d.SubcategoryID)
}

func TestLeafCategorySkipsSubcategoryPicker(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	m = press(m, "enter")         // account
	m = press(m, "down", "enter") // category: Transport (leaf)
	assert.Equal(t, entry.FieldAmount, session.Field())
	assert.Nil(t, session.Draft().SubcategoryID)
}

func TestTabSwitchesTypeAndTransferRoutesToDestination(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	m = press(m, "tab", "tab") // expense -> income -> transfer
	assert.Equal(t, model.TypeTransfer, session.Draft().Type)

	m = press(m, "enter") // account: Cash
	assert.Equal(t, entry.FieldToAccount, session.Field())

	m = press(m, "down", "enter") // destination: Bank
	d := session.Draft()
	require.NotNil(t, d.ToAccountID)
	assert.Equal(t, int64(2), *d.ToAccountID)
	assert.Equal(t, entry.FieldAmount, session.Field())
}

func TestAmountEntryAdvancesToNote(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	m = press(m, "enter", "down", "enter") // account, category Transport
	require.Equal(t, entry.FieldAmount, session.Field())

	m = press(m, "1", "2", ".", "5", "0", "enter")
	assert.Equal(t, entry.FieldNote, session.Field())
	assert.Equal(t, "12.50", session.Draft().AmountInput)
}

func TestSaveErrorIsDisplayedNotFatal(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	// No amount entered: commit reports InvalidAmount via savedMsg.
	updated, _ := m.Update(savedMsg{err: assert.AnError})
	m = updated.(EntryModel)
	assert.False(t, m.done)
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestFailedSaveAndContinueDoesNotStick(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	// ctrl+s on an empty draft fails validation inside commit.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(EntryModel)
	require.NotNil(t, cmd)
	saved, ok := cmd().(savedMsg)
	require.True(t, ok)
	require.Error(t, saved.err)

	updated, _ = m.Update(saved)
	m = updated.(EntryModel)
	assert.False(t, m.done)

	// The next successful save is a plain save: it must finish the
	// program, not take the save-and-continue path.
	updated, _ = m.Update(savedMsg{txn: &model.Transaction{}})
	m = updated.(EntryModel)
	assert.True(t, m.done)
	assert.Equal(t, 1, m.savedCount)
}

func TestViewShowsActivePicker(t *testing.T) {
	session := newSession()
	m := loadedModel(t, session)

	view := m.View()
	assert.Contains(t, view, "Select account")
	assert.Contains(t, view, "Cash")
	assert.Contains(t, view, "Bank")

	m = press(m, "enter")
	view = m.View()
	assert.Contains(t, view, "Select category")
	assert.Contains(t, view, "Food")
	assert.NotContains(t, view, "Restaurants", "subcategories hidden until their picker opens")
}
