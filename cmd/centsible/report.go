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

func reportCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a monthly spending breakdown",
		Long:  `Summarize one month's spending by category, with budget status when budgets exist.`,
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

			expenses, err := store.Expenses(ctx)
			if err != nil {
				return err
			}
			scoped, err := report.ForMonth(expenses, month)
			if err != nil {
				return err
			}
			if len(scoped) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses recorded in " + month + "."))
				return nil
			}

			format, err := displayFormatter(ctx, store, kv)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Spending for " + month))

			totals := report.CategoryTotals(scoped)
			var grand int64

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Total"),
				cli.HeaderStyle.Render("Expenses"))
			for _, t := range totals {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.Category, format(t.TotalCents), t.Count)
				grand += t.TotalCents
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n",
				cli.HeaderStyle.Render("Total"), cli.HeaderStyle.Render(format(grand)), len(scoped))
			w.Flush()

			budgets, err := store.Budgets(ctx)
			if err != nil {
				return err
			}
			lines, err := report.BudgetStatus(expenses, budgets, month)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Budgets"))
			for _, line := range lines {
				scope := "Overall"
				if line.Budget.Category != "" {
					scope = line.Budget.Category
				}
				status := cli.SuccessStyle.Render(format(line.RemainingCents) + " left")
				if line.RemainingCents < 0 {
					status = cli.ErrorStyle.Render(format(-line.RemainingCents) + " over")
				}
				fmt.Printf("  %s: %s of %s spent, %s\n",
					scope, format(line.SpentCents), format(line.Budget.LimitCents), status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")

	return cmd
}
