package main

import (
	"fmt"

	"github.com/centsible/centsible/internal/cli"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := store.DeleteExpense(ctx, args[0])
			if err != nil {
				return friendlyError(err)
			}
			if !removed {
				fmt.Println(cli.WarningStyle.Render("No expense with id " + args[0]))
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Deleted expense " + args[0]))
			return nil
		},
	}
}
