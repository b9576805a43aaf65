// Package tui provides the interactive guided-entry surface. All workflow
// rules live in the entry state machine; this model only routes key events
// into it and renders the active field.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/tally/internal/entry"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DCFFF"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89"))
)

// dataLoadedMsg carries the pickers' contents.
type dataLoadedMsg struct {
	err        error
	accounts   []model.Account
	categories []model.Category
}

// savedMsg reports the outcome of a commit.
type savedMsg struct {
	err error
	txn *model.Transaction
}

// EntryModel drives one guided entry session.
type EntryModel struct {
	ledger      *ledger.Ledger
	session     *entry.Session
	err         error
	saved       *model.Transaction
	accounts    []model.Account
	roots       []model.Category
	children    map[int64][]model.Category
	amountInput textinput.Model
	noteInput   textinput.Model
	cursor      int
	savedCount  int
	loaded      bool
	continuing  bool
	done        bool
}

// NewEntryModel creates the guided-entry surface around a session.
func NewEntryModel(l *ledger.Ledger, session *entry.Session) EntryModel {
	amountInput := textinput.New()
	amountInput.Placeholder = "0.00"
	amountInput.CharLimit = 16
	amountInput.SetValue(session.Draft().AmountInput)

	noteInput := textinput.New()
	noteInput.Placeholder = "note (optional)"
	noteInput.CharLimit = 120
	noteInput.SetValue(session.Draft().Note)

	return EntryModel{
		ledger:      l,
		session:     session,
		amountInput: amountInput,
		noteInput:   noteInput,
		children:    make(map[int64][]model.Category),
	}
}

// Saved returns the last committed transaction, if any.
func (m EntryModel) Saved() *model.Transaction {
	return m.saved
}

// SavedCount reports how many entries were committed this run.
func (m EntryModel) SavedCount() int {
	return m.savedCount
}

// Init loads the account and category pickers.
func (m EntryModel) Init() tea.Cmd {
	return m.loadData()
}

func (m EntryModel) loadData() tea.Cmd {
	l := m.ledger
	return func() tea.Msg {
		ctx := context.Background()

		accounts, err := l.Accounts(ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		categories, err := l.AllCategories(ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		return dataLoadedMsg{accounts: accounts, categories: categories}
	}
}

func (m EntryModel) commit() tea.Cmd {
	txn, err := m.session.Save()
	if err != nil {
		return func() tea.Msg { return savedMsg{err: err} }
	}

	l := m.ledger
	isEdit := m.session.IsEdit()
	return func() tea.Msg {
		ctx := context.Background()
		if isEdit {
			if err := l.UpdateTransaction(ctx, txn); err != nil {
				return savedMsg{err: err}
			}
		} else {
			if _, err := l.AddTransaction(ctx, txn); err != nil {
				return savedMsg{err: err}
			}
		}
		return savedMsg{txn: txn}
	}
}

// Update handles messages.
func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.accounts = msg.accounts
		m.roots = m.roots[:0]
		m.children = make(map[int64][]model.Category)
		for _, cat := range msg.categories {
			if cat.ParentID == nil {
				m.roots = append(m.roots, cat)
			} else {
				m.children[*cat.ParentID] = append(m.children[*cat.ParentID], cat)
			}
		}
		m.loaded = true
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.continuing = false
			return m, nil
		}
		m.err = nil
		m.saved = msg.txn
		m.savedCount++
		if m.continuing {
			m.session.Continue()
			m.amountInput.SetValue("")
			m.noteInput.SetValue("")
			m.cursor = 0
			m.continuing = false
			return m, nil
		}
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m EntryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.done = true
		return m, tea.Quit
	case "tab":
		m.session.SetType(nextType(m.session.Draft().Type))
		return m, nil
	case "ctrl+s":
		m.continuing = true
		m.syncInputs()
		return m, m.commit()
	}

	if !m.loaded {
		return m, nil
	}

	switch m.session.Field() {
	case entry.FieldAccount, entry.FieldToAccount:
		return m.handlePicker(msg, len(m.accounts), func(i int) {
			if m.session.Field() == entry.FieldAccount {
				m.session.SelectAccount(m.accounts[i].ID)
			} else {
				m.session.SelectToAccount(m.accounts[i].ID)
			}
		})

	case entry.FieldCategory:
		return m.handlePicker(msg, len(m.roots), func(i int) {
			cat := m.roots[i]
			m.session.SelectCategory(cat.ID, len(m.children[cat.ID]) > 0)
		})

	case entry.FieldSubcategory:
		subs := m.currentSubcategories()
		return m.handlePicker(msg, len(subs), func(i int) {
			m.session.SelectSubcategory(subs[i].ID)
		})

	case entry.FieldAmount:
		if msg.String() == "enter" {
			m.session.SetAmount(m.amountInput.Value())
			m.session.SetCurrentField(entry.FieldNote)
			return m, nil
		}
		var cmd tea.Cmd
		m.amountInput.Focus()
		m.amountInput, cmd = m.amountInput.Update(msg)
		return m, cmd

	case entry.FieldNote:
		if msg.String() == "enter" {
			m.syncInputs()
			return m, m.commit()
		}
		var cmd tea.Cmd
		m.noteInput.Focus()
		m.noteInput, cmd = m.noteInput.Update(msg)
		return m, cmd

	case entry.FieldNone, entry.FieldDate:
		// Edit flow: jump to the first field on any movement key.
		if msg.String() == "enter" {
			m.session.SetCurrentField(entry.FieldAccount)
		}
		return m, nil
	}

	return m, nil
}

func (m EntryModel) handlePicker(msg tea.KeyMsg, count int, choose func(int)) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "enter":
		if count == 0 {
			return m, nil
		}
		choose(m.cursor)
		m.cursor = 0
	}
	return m, nil
}

func (m *EntryModel) syncInputs() {
	m.session.SetAmount(m.amountInput.Value())
	m.session.SetNote(m.noteInput.Value())
}

func (m EntryModel) currentSubcategories() []model.Category {
	d := m.session.Draft()
	if d.CategoryID == nil {
		return nil
	}
	return m.children[*d.CategoryID]
}

func nextType(t model.TransactionType) model.TransactionType {
	switch t {
	case model.TypeExpense:
		return model.TypeIncome
	case model.TypeIncome:
		return model.TypeTransfer
	default:
		return model.TypeExpense
	}
}

// View renders the breadcrumbs, the active field, and a help line.
func (m EntryModel) View() string {
	if m.done {
		return ""
	}
	if !m.loaded {
		return helpStyle.Render("loading...")
	}

	var b strings.Builder
	d := m.session.Draft()

	b.WriteString(titleStyle.Render(fmt.Sprintf("New %s", d.Type)))
	if m.session.IsEdit() {
		b.WriteString(titleStyle.Render(" (editing)"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderCrumbs(d))
	b.WriteString("\n")

	switch m.session.Field() {
	case entry.FieldAccount:
		b.WriteString(m.renderAccountPicker("Select account"))
	case entry.FieldToAccount:
		b.WriteString(m.renderAccountPicker("Select destination account"))
	case entry.FieldCategory:
		b.WriteString(m.renderCategoryPicker("Select category", m.roots))
	case entry.FieldSubcategory:
		b.WriteString(m.renderCategoryPicker("Select subcategory", m.currentSubcategories()))
	case entry.FieldAmount:
		b.WriteString("Amount: " + m.amountInput.View() + "\n")
	case entry.FieldNote:
		b.WriteString("Note: " + m.noteInput.View() + "\n")
	case entry.FieldNone, entry.FieldDate:
		b.WriteString(helpStyle.Render("press enter to start editing") + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.savedCount > 0 {
		b.WriteString("\n" + selectedStyle.Render(fmt.Sprintf("%d saved this session", m.savedCount)) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab: switch type • enter: confirm • ctrl+s: save and continue • esc: quit"))
	return b.String()
}

func (m EntryModel) renderCrumbs(d entry.Draft) string {
	var parts []string
	if d.AccountID != nil {
		parts = append(parts, selectedStyle.Render("account:"+m.accountName(*d.AccountID)))
	}
	if d.ToAccountID != nil {
		parts = append(parts, selectedStyle.Render("to:"+m.accountName(*d.ToAccountID)))
	}
	if d.CategoryID != nil {
		parts = append(parts, selectedStyle.Render("category:"+m.categoryName(*d.CategoryID)))
	}
	if d.SubcategoryID != nil {
		parts = append(parts, selectedStyle.Render("sub:"+m.categoryName(*d.SubcategoryID)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, helpStyle.Render(" › ")) + "\n"
}

func (m EntryModel) renderAccountPicker(title string) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	for i, account := range m.accounts {
		line := fmt.Sprintf("  %s (%s)", account.Name, account.Type)
		if i == m.cursor {
			line = cursorStyle.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}
	if len(m.accounts) == 0 {
		b.WriteString(helpStyle.Render("  no accounts yet") + "\n")
	}
	return b.String()
}

func (m EntryModel) renderCategoryPicker(title string, categories []model.Category) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	for i, cat := range categories {
		line := "  " + cat.Name
		if n := len(m.children[cat.ID]); n > 0 {
			line += helpStyle.Render(fmt.Sprintf(" (%d)", n))
		}
		if i == m.cursor {
			line = cursorStyle.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}
	if len(categories) == 0 {
		b.WriteString(helpStyle.Render("  no categories yet") + "\n")
	}
	return b.String()
}

func (m EntryModel) accountName(id int64) string {
	for _, account := range m.accounts {
		if account.ID == id {
			return account.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m EntryModel) categoryName(id int64) string {
	for _, cat := range m.roots {
		if cat.ID == id {
			return cat.Name
		}
	}
	for _, subs := range m.children {
		for _, cat := range subs {
			if cat.ID == id {
				return cat.Name
			}
		}
	}
	return fmt.Sprintf("#%d", id)
}
