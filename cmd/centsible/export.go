package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/csvio"
	"github.com/centsible/centsible/internal/report"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		output string
		month  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV",
		Long:  `Write all expenses (or one month's) as CSV, to a file or stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
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

			data, err := csvio.Export(expenses)
			if errors.Is(err, common.ErrEmptyExport) {
				return common.NewUserError("Nothing to export", err)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Exported %d expense(s) to %s",
				len(expenses), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&month, "month", "", "restrict to one month (YYYY-MM)")

	return cmd
}
