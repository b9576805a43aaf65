package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, update, and delete accounts, pick the default one, and show derived balances.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(setDefaultAccountCmd())
	cmd.AddCommand(balanceCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			accounts, err := l.Accounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'tally accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tNAME\tTYPE\tBALANCE\t\n")
			for _, account := range accounts {
				balance, err := l.BalanceOf(ctx, account.ID)
				if err != nil {
					return fmt.Errorf("failed to compute balance for account %d: %w", account.ID, err)
				}
				marker := ""
				if account.IsDefault {
					marker = cli.DefaultIcon
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					account.ID, account.Name, account.Type, balance, marker)
			}

			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		accountType    string
		initialBalance string
		icon           string
		isDefault      bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			account := model.Account{
				Name:      args[0],
				Type:      model.AccountType(accountType),
				Icon:      icon,
				IsDefault: isDefault,
			}
			if !model.ValidAccountType(account.Type) {
				return fmt.Errorf("invalid account type %q (want cash, bank, credit_card, savings, or wallet)", accountType)
			}
			if initialBalance != "" {
				balance, err := model.ParseMoney(initialBalance)
				if err != nil {
					return fmt.Errorf("invalid initial balance: %w", err)
				}
				account.InitialBalance = balance
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.CreateAccount(ctx, &account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %q (ID: %d)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "cash", "account type (cash, bank, credit_card, savings, wallet)")
	cmd.Flags().StringVar(&initialBalance, "balance", "", "initial balance, e.g. 100.00")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default account")

	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		name        string
		accountType string
		icon        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if name == "" && accountType == "" && icon == "" {
				return fmt.Errorf("must specify --name, --type, or --icon to update")
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			account, err := l.AccountByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			if name != "" {
				account.Name = name
			}
			if accountType != "" {
				account.Type = model.AccountType(accountType)
				if !model.ValidAccountType(account.Type) {
					return fmt.Errorf("invalid account type %q", accountType)
				}
			}
			if icon != "" {
				account.Icon = icon
			}

			if err := l.UpdateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated account %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&accountType, "type", "", "new account type")
	cmd.Flags().StringVar(&icon, "icon", "", "new display icon")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long:  `Delete an account. Its transactions are kept with their account reference cleared.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Are you sure you want to delete account %d? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.DeleteAccount(ctx, id); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted account %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	return cmd
}

func setDefaultAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id>",
		Short: "Make an account the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.SetDefaultAccount(ctx, id); err != nil {
				return fmt.Errorf("failed to set default account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Account %d is now the default", id)))
			return nil
		},
	}
}

func renderBalance(balance model.Money) string {
	if balance < 0 {
		return cli.NegativeAmountStyle.Render(balance.String())
	}
	return cli.AmountStyle.Render(balance.String())
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [id]",
		Short: "Show an account balance, or the total across all accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				balance, err := l.BalanceOf(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to compute balance: %w", err)
				}
				fmt.Println(renderBalance(balance))
				return nil
			}

			total, err := l.TotalBalance(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute total balance: %w", err)
			}
			fmt.Println(renderBalance(total))
			return nil
		},
	}
}
