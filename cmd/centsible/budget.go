package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/report"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly spending limits",
		Long:  `Set, list and remove monthly budgets. A budget without a category caps total spending for the month.`,
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetListCmd())
	cmd.AddCommand(budgetRemoveCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	var (
		month    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "set <limit>",
		Short: "Set a budget for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := parseAmountArg(args[0])
			if err != nil {
				return err
			}
			if month == "" {
				month = time.Now().Format("2006-01")
			}

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			budget, err := store.SetBudget(ctx, month, category, cents)
			if err != nil {
				return friendlyError(err)
			}

			scope := "overall spending"
			if budget.Category != "" {
				scope = budget.Category
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Budget for %s in %s set to %s",
				scope, budget.YearMonth, args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&category, "category", "", "limit one category instead of overall spending")

	return cmd
}

func budgetListCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show budgets and spending against them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if month == "" {
				month = time.Now().Format("2006-01")
			}

			store, kv, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			budgets, err := store.Budgets(ctx)
			if err != nil {
				return err
			}
			expenses, err := store.Expenses(ctx)
			if err != nil {
				return err
			}

			lines, err := report.BudgetStatus(expenses, budgets, month)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets for " + month + ". Use 'centsible budget set' to create one."))
				return nil
			}

			format, err := displayFormatter(ctx, store, kv)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Budgets for " + month))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Limit"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Remaining"),
				cli.HeaderStyle.Render("ID"))

			for _, line := range lines {
				scope := "(overall)"
				if line.Budget.Category != "" {
					scope = line.Budget.Category
				}
				remaining := format(line.RemainingCents)
				if line.RemainingCents < 0 {
					remaining = cli.ErrorStyle.Render(remaining + " over")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					scope, format(line.Budget.LimitCents), format(line.SpentCents),
					remaining, cli.SubtleStyle.Render(line.Budget.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")

	return cmd
}

func budgetRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := store.DeleteBudget(ctx, args[0])
			if err != nil {
				return friendlyError(err)
			}
			if !removed {
				fmt.Println(cli.WarningStyle.Render("No budget with id " + args[0]))
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Removed budget " + args[0]))
			return nil
		},
	}
}
