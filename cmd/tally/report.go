package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		year    int
		month   int
		txType  string
		monthly bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spending breakdown by category",
		Long: `Aggregate transactions into a per-category breakdown with percentages.
--month narrows the report to one month; --monthly prints per-month
income and expense totals for the year instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			typ := model.TransactionType(txType)
			if !model.ValidTransactionType(typ) {
				return fmt.Errorf("invalid transaction type %q (want expense, income, or transfer)", txType)
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
			if month != 0 {
				start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
				end = start.AddDate(0, 1, -1)
			}

			txns, err := l.TransactionsByDateRange(ctx, start, end)
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			if monthly {
				return printMonthly(txns, year)
			}

			names, err := categoryNames(ctx, l)
			if err != nil {
				return err
			}
			return printBreakdown(txns, typ, names, start, end)
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "report year")
	cmd.Flags().IntVar(&month, "month", 0, "report month (1-12, whole year when omitted)")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type to break down")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "print per-month totals for the year instead")

	return cmd
}

func printBreakdown(txns []model.Transaction, typ model.TransactionType, names map[int64]string, start, end time.Time) error {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s breakdown %s – %s",
		typ, start.Format("2006-01-02"), end.Format("2006-01-02"))))

	totals := report.CategoryTotals(txns, typ)
	rows := report.Breakdown(totals)
	if len(rows) == 0 {
		fmt.Println(cli.InfoStyle.Render("No matching transactions."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "CATEGORY\tAMOUNT\tSHARE\n")
	for _, row := range rows {
		name := names[row.CategoryID]
		if row.CategoryID == report.Uncategorized {
			name = "uncategorized"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", name, row.Amount, row.Percentage)
	}
	fmt.Fprintf(w, "TOTAL\t%s\t\n", report.TotalByType(txns, typ))

	return nil
}

func printMonthly(txns []model.Transaction, year int) error {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Monthly totals %d", year)))

	months := report.MonthlyTotals(txns, year)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "MONTH\tINCOME\tEXPENSE\tNET\n")
	for m := time.January; m <= time.December; m++ {
		byType := months[m]
		income := byType[model.TypeIncome]
		expense := byType[model.TypeExpense]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m, income, expense, income-expense)
	}

	return nil
}
