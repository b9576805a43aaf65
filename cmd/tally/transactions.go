package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/entry"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tui"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, list, edit, copy, and delete ledger transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(copyTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType        string
		date          string
		amount        string
		note          string
		accountID     int64
		toAccountID   int64
		categoryID    int64
		subcategoryID int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Record a transaction. Without flags an interactive guided entry opens;
with --amount the entry is committed directly from the flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			typ := model.TransactionType(txType)
			if !model.ValidTransactionType(typ) {
				return fmt.Errorf("invalid transaction type %q (want expense, income, or transfer)", txType)
			}

			entryDate := time.Now()
			if date != "" {
				parsed, err := parseDate(date)
				if err != nil {
					return err
				}
				entryDate = parsed
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			session := entry.NewSession(typ, entryDate)

			// Flag-driven entry skips the TUI entirely.
			if amount != "" {
				if accountID != 0 {
					session.SelectAccount(accountID)
				} else if account, err := l.DefaultAccount(ctx); err == nil {
					session.SelectAccount(account.ID)
				}
				if toAccountID != 0 {
					session.SelectToAccount(toAccountID)
				}
				if categoryID != 0 {
					session.SelectCategory(categoryID, subcategoryID != 0)
				}
				if subcategoryID != 0 {
					session.SelectSubcategory(subcategoryID)
				}
				session.SetAmount(amount)
				session.SetNote(note)

				txn, err := session.Save()
				if err != nil {
					return err
				}
				id, err := l.AddTransaction(ctx, txn)
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s (ID: %s)", txn.Type, txn.Amount, id)))
				return nil
			}

			return runEntry(l, session)
		},
	}

	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (expense, income, transfer)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50 (enables non-interactive entry)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().Int64Var(&accountID, "account", 0, "source account ID (default account when omitted)")
	cmd.Flags().Int64Var(&toAccountID, "to-account", 0, "destination account ID (transfers only)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "top-level category ID")
	cmd.Flags().Int64Var(&subcategoryID, "subcategory", 0, "subcategory ID (child of --category)")

	return cmd
}

// runEntry hands the session to the guided TUI and reports the outcome.
func runEntry(l *ledger.Ledger, session *entry.Session) error {
	program := tea.NewProgram(tui.NewEntryModel(l, session))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("entry UI failed: %w", err)
	}

	m, ok := final.(tui.EntryModel)
	if !ok {
		return fmt.Errorf("unexpected final model %T", final)
	}
	switch n := m.SavedCount(); n {
	case 0:
		fmt.Println(cli.InfoStyle.Render("Nothing saved."))
	case 1:
		fmt.Println(cli.FormatSuccess("Saved 1 transaction"))
	default:
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %d transactions", n)))
	}
	return nil
}

func listTxCmd() *cobra.Command {
	var (
		from  string
		to    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txns, err := loadTxRange(ctx, l, from, to)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}

			names, err := categoryNames(ctx, l)
			if err != nil {
				return err
			}
			accounts, err := accountNames(ctx, l)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "DATE\tTYPE\tAMOUNT\tACCOUNT\tCATEGORY\tNOTE\tID\n")
			for i := range txns {
				txn := &txns[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Type,
					txn.Amount,
					txAccountLabel(txn, accounts),
					txCategoryLabel(txn, names),
					txn.Note,
					txn.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many entries")

	return cmd
}

func loadTxRange(ctx context.Context, l *ledger.Ledger, from, to string) ([]model.Transaction, error) {
	if from == "" && to == "" {
		return l.AllTransactions(ctx)
	}

	start := time.Time{}
	end := time.Now()
	if from != "" {
		parsed, err := parseDate(from)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	if to != "" {
		parsed, err := parseDate(to)
		if err != nil {
			return nil, err
		}
		end = parsed
	}
	return l.TransactionsByDateRange(ctx, start, end)
}

func categoryNames(ctx context.Context, l *ledger.Ledger) (map[int64]string, error) {
	categories, err := l.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func accountNames(ctx context.Context, l *ledger.Ledger) (map[int64]string, error) {
	accounts, err := l.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	names := make(map[int64]string, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account.Name
	}
	return names, nil
}

func txAccountLabel(txn *model.Transaction, names map[int64]string) string {
	label := "-"
	if txn.AccountID != nil {
		label = names[*txn.AccountID]
	}
	if txn.ToAccountID != nil {
		label += " → " + names[*txn.ToAccountID]
	}
	return label
}

func txCategoryLabel(txn *model.Transaction, names map[int64]string) string {
	if txn.CategoryID == nil {
		if txn.Type == model.TypeTransfer {
			return "-"
		}
		return "uncategorized"
	}
	label := names[*txn.CategoryID]
	if txn.SubcategoryID != nil {
		label += "/" + names[*txn.SubcategoryID]
	}
	return label
}

func editTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txn, err := l.TransactionByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get transaction: %w", err)
			}

			hasChildren := false
			if txn.CategoryID != nil {
				subs, err := l.Subcategories(ctx, *txn.CategoryID)
				if err != nil {
					return fmt.Errorf("failed to load subcategories: %w", err)
				}
				hasChildren = len(subs) > 0
			}

			return runEntry(l, entry.EditSession(*txn, hasChildren))
		},
	}
}

func copyTxCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a transaction into a new entry",
		Long:  `Seed a new guided entry from an existing transaction. The copy gets a fresh ID and, by default, today's date.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txn, err := l.TransactionByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get transaction: %w", err)
			}

			copyDate := time.Now()
			if date != "" {
				parsed, err := parseDate(date)
				if err != nil {
					return err
				}
				copyDate = parsed
			}

			return runEntry(l, entry.CopySession(*txn, copyDate))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date for the copy (YYYY-MM-DD, default today)")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.DeleteTransaction(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}
}
