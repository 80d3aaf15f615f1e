package main

import (
	"fmt"
	"time"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/storage"
	"github.com/centsible/centsible/internal/validate"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		note   string
		method string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <category>",
		Short: "Record a new expense",
		Long:  `Record a spending event. Amounts accept dot or comma decimals: 12.50 and 12,50 are equivalent.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := parseAmountArg(args[0])
			if err != nil {
				return err
			}
			paidAt, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			problems := validate.Expense(validate.ExpenseInput{
				AmountCents:   cents,
				Category:      args[1],
				Note:          note,
				PaymentMethod: method,
				PaidAt:        paidAt,
			}, time.Now())
			if len(problems) > 0 {
				printProblems(problems)
				return fmt.Errorf("expense rejected with %d problem(s)", len(problems))
			}

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			expense, err := store.AddExpense(ctx, storage.NewExpense{
				AmountCents:   cents,
				Category:      args[1],
				Note:          note,
				PaymentMethod: method,
				PaidAt:        paidAt,
			})
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Recorded %s in %s (%s)",
				args[0], expense.Category, expense.PaidAt)))
			fmt.Println(cli.SubtleStyle.Render("id: " + expense.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "free-text note (max 500 characters)")
	cmd.Flags().StringVar(&method, "method", "", "payment method, e.g. card or cash")
	cmd.Flags().StringVar(&date, "date", "", "date paid as YYYY-MM-DD (default today)")

	return cmd
}
