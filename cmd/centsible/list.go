package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/report"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long:  `Display recorded expenses, optionally scoped to one calendar month.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, kv, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			expenses, err := store.Expenses(ctx)
			if err != nil {
				return err
			}
			if month != "" {
				expenses, err = report.ForMonth(expenses, month)
				if err != nil {
					return err
				}
			}
			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses found. Use 'centsible add' to record one."))
				return nil
			}

			format, err := displayFormatter(ctx, store, kv)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Note"),
				cli.HeaderStyle.Render("ID"))

			var total int64
			for _, e := range expenses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.PaidAt, format(e.AmountCents), e.Category, e.Note,
					cli.SubtleStyle.Render(e.ID))
				total += e.AmountCents
			}
			fmt.Fprintf(w, "\t%s\t\t\t\n", cli.HeaderStyle.Render(format(total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to one month (YYYY-MM)")

	return cmd
}
