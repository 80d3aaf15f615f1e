package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/csvio"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var allowDuplicates bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import expenses from a CSV file",
		Long: `Import expenses from a CSV export. The file must have date, amount and
category columns; note and payment_method are optional. Bad rows are
skipped and reported, and rows matching an existing expense are treated
as duplicates unless --allow-duplicates is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			existing, err := store.Expenses(ctx)
			if err != nil {
				return err
			}
			prefs, err := store.Preferences(ctx)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			result, err := csvio.Import(data, existing, prefs.Categories, csvio.Options{
				AllowDuplicates: allowDuplicates,
				OnRow: func(processed, total int) {
					if bar == nil {
						bar = newImportBar(total)
					}
					if err := bar.Set(processed); err != nil {
						slog.Warn("Failed to update progress bar", "error", err)
					}
				},
			})
			if err != nil {
				return friendlyError(err)
			}

			if result.Imported > 0 {
				if len(result.NewCategories) > 0 {
					prefs.Categories = append(prefs.Categories, result.NewCategories...)
					if err := store.SavePreferences(ctx, prefs); err != nil {
						return friendlyError(err)
					}
				}
				if err := store.SaveExpenses(ctx, append(existing, result.Expenses...)); err != nil {
					return friendlyError(err)
				}
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d expense(s), skipped %d",
				result.Imported, result.Skipped)))
			for _, c := range result.NewCategories {
				fmt.Println(cli.InfoStyle.Render("  new category: " + c.Name))
			}
			for _, warning := range result.Warnings {
				fmt.Println(cli.WarningStyle.Render("  " + warning))
			}
			for _, rowErr := range result.RowErrors {
				fmt.Println(cli.ErrorStyle.Render("  " + rowErr))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowDuplicates, "allow-duplicates", false, "import rows that match existing expenses")

	return cmd
}

func newImportBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing expenses...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
