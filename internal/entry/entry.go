// Package entry implements the guided transaction-entry state machine: a
// field-by-field capture workflow that walks account, category, amount, and
// note selection and emits a validated transaction draft. The machine is
// pure and UI-free; the terminal surface in internal/tui merely drives it.
package entry

import (
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// Field identifies the input surface currently active. It governs which
// prompt is shown, not whether the draft is valid.
type Field int

// Input fields in workflow order.
const (
	FieldNone Field = iota
	FieldDate
	FieldAccount
	FieldToAccount
	FieldCategory
	FieldSubcategory
	FieldAmount
	FieldNote
)

// String returns the field's display name.
func (f Field) String() string {
	switch f {
	case FieldNone:
		return "none"
	case FieldDate:
		return "date"
	case FieldAccount:
		return "account"
	case FieldToAccount:
		return "destination account"
	case FieldCategory:
		return "category"
	case FieldSubcategory:
		return "subcategory"
	case FieldAmount:
		return "amount"
	case FieldNote:
		return "note"
	default:
		return "unknown"
	}
}

// Draft is the in-progress transaction being assembled. AmountInput holds
// the raw user text; it is parsed only at save time.
type Draft struct {
	Date          time.Time
	AmountInput   string
	Note          string
	Type          model.TransactionType
	CategoryID    *int64
	SubcategoryID *int64
	AccountID     *int64
	ToAccountID   *int64
}

// Session is one user's one in-progress entry. It is single-threaded by
// design and holds no cross-entry shared state.
type Session struct {
	draft       Draft
	editingID   string
	field       Field
	hasChildren bool
}

// NewSession starts a new-transaction flow at the account field.
func NewSession(typ model.TransactionType, date time.Time) *Session {
	return &Session{
		field: FieldAccount,
		draft: Draft{Type: typ, Date: model.NormalizeDate(date)},
	}
}

// EditSession seeds a draft from an existing transaction. The edit flow
// starts with no active field; the user focuses what they want to change.
// categoryHasChildren tells the machine whether the seeded category showed a
// subcategory menu when it was originally picked.
func EditSession(txn model.Transaction, categoryHasChildren bool) *Session {
	return &Session{
		field:       FieldNone,
		editingID:   txn.ID,
		hasChildren: categoryHasChildren,
		draft: Draft{
			Type:          txn.Type,
			Date:          txn.Date,
			AmountInput:   txn.Amount.String(),
			Note:          txn.Note,
			CategoryID:    copyID(txn.CategoryID),
			SubcategoryID: copyID(txn.SubcategoryID),
			AccountID:     copyID(txn.AccountID),
			ToAccountID:   copyID(txn.ToAccountID),
		},
	}
}

// CopySession seeds a fresh draft from an existing transaction, optionally
// substituting a new date (pass the zero time to keep the original). The
// copy always targets an insert and never reuses the source's ID.
func CopySession(txn model.Transaction, date time.Time) *Session {
	s := EditSession(txn, false)
	s.editingID = ""
	s.field = FieldAccount
	if !date.IsZero() {
		s.draft.Date = model.NormalizeDate(date)
	}
	// The copied draft already carries a subcategory when the source had
	// one, so the parent-with-children rule is satisfied by construction.
	return s
}

// Field returns the currently active input field.
func (s *Session) Field() Field {
	return s.field
}

// Draft returns a snapshot of the in-progress transaction.
func (s *Session) Draft() Draft {
	d := s.draft
	d.CategoryID = copyID(s.draft.CategoryID)
	d.SubcategoryID = copyID(s.draft.SubcategoryID)
	d.AccountID = copyID(s.draft.AccountID)
	d.ToAccountID = copyID(s.draft.ToAccountID)
	return d
}

// IsEdit reports whether saving will update an existing transaction.
func (s *Session) IsEdit() bool {
	return s.editingID != ""
}

// SetCurrentField re-focuses any field. This is always legal: it only
// changes which surface is active, never the draft.
func (s *Session) SetCurrentField(f Field) {
	s.field = f
}

// SetType switches the transaction type. Switching to transfer clears the
// category selection; switching away clears the destination account. The
// active field is preserved.
func (s *Session) SetType(typ model.TransactionType) {
	if typ == s.draft.Type {
		return
	}

	s.draft.Type = typ
	if typ == model.TypeTransfer {
		s.draft.CategoryID = nil
		s.draft.SubcategoryID = nil
		s.hasChildren = false
	} else {
		s.draft.ToAccountID = nil
	}
}

// SelectAccount records the source account and advances to the category
// picker, or to the destination picker for transfers.
func (s *Session) SelectAccount(id int64) {
	s.draft.AccountID = &id
	if s.draft.Type == model.TypeTransfer {
		s.field = FieldToAccount
	} else {
		s.field = FieldCategory
	}
}

// SelectToAccount records the transfer destination and advances to amount.
func (s *Session) SelectToAccount(id int64) {
	s.draft.ToAccountID = &id
	s.field = FieldAmount
}

// SelectCategory records a top-level category. When the category has
// children the subcategory picker opens and any previous subcategory choice
// is cleared pending a new one; a leaf category advances straight to amount.
func (s *Session) SelectCategory(id int64, hasChildren bool) {
	s.draft.CategoryID = &id
	s.draft.SubcategoryID = nil
	s.hasChildren = hasChildren
	if hasChildren {
		s.field = FieldSubcategory
	} else {
		s.field = FieldAmount
	}
}

// SelectSubcategory records the child choice and advances to amount.
func (s *Session) SelectSubcategory(id int64) {
	s.draft.SubcategoryID = &id
	s.field = FieldAmount
}

// SetAmount records the raw amount text. Parsing happens at save time.
func (s *Session) SetAmount(input string) {
	s.draft.AmountInput = input
}

// SetNote records the note text.
func (s *Session) SetNote(note string) {
	s.draft.Note = note
}

// SetDate records the transaction date.
func (s *Session) SetDate(date time.Time) {
	s.draft.Date = model.NormalizeDate(date)
}

// Save validates the draft and converts it into a transaction ready for the
// ledger. Checks run in order and stop at the first failure: amount,
// account, transfer destination, category, subcategory. The returned
// transaction carries the original ID when editing and none when inserting.
func (s *Session) Save() (*model.Transaction, error) {
	amount, err := model.ParseMoney(s.draft.AmountInput)
	if err != nil {
		return nil, common.NewValidationError(common.CodeInvalidAmount,
			"amount %q is not a positive number", s.draft.AmountInput)
	}

	if s.draft.AccountID == nil {
		return nil, common.NewValidationError(common.CodeMissingAccount, "an account must be selected")
	}

	if s.draft.Type == model.TypeTransfer {
		if s.draft.ToAccountID == nil {
			return nil, common.NewValidationError(common.CodeMissingDestination, "a destination account must be selected")
		}
		if *s.draft.ToAccountID == *s.draft.AccountID {
			return nil, common.NewValidationError(common.CodeSameAccount, "destination must differ from the source account")
		}
	} else {
		if s.draft.CategoryID == nil && s.draft.SubcategoryID == nil {
			return nil, common.NewValidationError(common.CodeMissingCategory, "a category must be selected")
		}
		if s.hasChildren && s.draft.SubcategoryID == nil {
			return nil, common.NewValidationError(common.CodeMissingSubcategory, "a subcategory must be selected")
		}
	}

	txn := &model.Transaction{
		ID:            s.editingID,
		Type:          s.draft.Type,
		Amount:        amount,
		Note:          strings.TrimSpace(s.draft.Note),
		Date:          model.NormalizeDate(s.draft.Date),
		CategoryID:    copyID(s.draft.CategoryID),
		SubcategoryID: copyID(s.draft.SubcategoryID),
		AccountID:     copyID(s.draft.AccountID),
		ToAccountID:   copyID(s.draft.ToAccountID),
	}
	return txn, nil
}

// Continue resets the draft for rapid repeated entry: amount, note, and
// category selections clear while type, date, and accounts stick. The flow
// returns to the account field.
func (s *Session) Continue() {
	s.draft.AmountInput = ""
	s.draft.Note = ""
	s.draft.CategoryID = nil
	s.draft.SubcategoryID = nil
	s.hasChildren = false
	s.field = FieldAccount
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
