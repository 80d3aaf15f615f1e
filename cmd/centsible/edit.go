package main

import (
	"fmt"
	"time"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/storage"
	"github.com/centsible/centsible/internal/validate"
	"github.com/spf13/cobra"
)

// mergedInput overlays a patch on the stored expense, yielding the
// candidate the user-facing validation inspects before the update runs.
func mergedInput(e model.Expense, patch storage.ExpensePatch) validate.ExpenseInput {
	in := validate.ExpenseInput{
		AmountCents:   e.AmountCents,
		Category:      e.Category,
		Note:          e.Note,
		PaymentMethod: e.PaymentMethod,
		PaidAt:        e.PaidAt,
	}
	if patch.AmountCents != nil {
		in.AmountCents = *patch.AmountCents
	}
	if patch.Category != nil {
		in.Category = *patch.Category
	}
	if patch.Note != nil {
		in.Note = *patch.Note
	}
	if patch.PaymentMethod != nil {
		in.PaymentMethod = *patch.PaymentMethod
	}
	if patch.PaidAt != nil {
		in.PaidAt = *patch.PaidAt
	}
	return in
}

func editCmd() *cobra.Command {
	var (
		amount string
		cat    string
		note   string
		method string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing expense",
		Long:  `Update the given fields of one expense; unset flags leave fields untouched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var patch storage.ExpensePatch
			if cmd.Flags().Changed("amount") {
				cents, err := parseAmountArg(amount)
				if err != nil {
					return err
				}
				patch.AmountCents = &cents
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &cat
			}
			if cmd.Flags().Changed("note") {
				patch.Note = &note
			}
			if cmd.Flags().Changed("method") {
				patch.PaymentMethod = &method
			}
			if cmd.Flags().Changed("date") {
				parsed, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				patch.PaidAt = &parsed
			}

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			expenses, err := store.Expenses(ctx)
			if err != nil {
				return err
			}
			var existing *model.Expense
			for i := range expenses {
				if expenses[i].ID == args[0] {
					existing = &expenses[i]
					break
				}
			}
			if existing == nil {
				return common.NewUserError("No expense with id "+args[0], common.ErrNotFound)
			}

			problems := validate.Expense(mergedInput(*existing, patch), time.Now())
			if len(problems) > 0 {
				printProblems(problems)
				return fmt.Errorf("expense rejected with %d problem(s)", len(problems))
			}

			updated, err := store.UpdateExpense(ctx, args[0], patch)
			if err != nil {
				return friendlyError(err)
			}
			if updated == nil {
				fmt.Println(cli.WarningStyle.Render("No expense with id " + args[0]))
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Updated expense " + updated.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&cat, "category", "", "new category")
	cmd.Flags().StringVar(&note, "note", "", "new note")
	cmd.Flags().StringVar(&method, "method", "", "new payment method")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")

	return cmd
}
