package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/rates"
	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
		Long:  `Inspect and refresh the cached exchange rates used for display-currency conversion.`,
	}

	cmd.AddCommand(ratesShowCmd())
	cmd.AddCommand(ratesRefreshCmd())

	return cmd
}

func ratesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cached exchange rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, kv, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			service := rates.New(kv)
			if err := service.RefreshIfStale(ctx); err != nil {
				fmt.Println(cli.WarningStyle.Render("Could not refresh rates; showing cached values"))
			}

			cached := service.Cached(ctx)
			if cached == nil {
				fmt.Println(cli.InfoStyle.Render("No rates cached yet. Run 'centsible rates refresh'."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Rates against %s (as of %s)",
				cached.Base, cached.UpdatedAt.Format("2006-01-02 15:04"))))

			codes := make([]string, 0, len(cached.Rates))
			for code := range cached.Rates {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			for _, code := range codes {
				if code == model.BaseCurrency {
					continue
				}
				fmt.Fprintf(w, "%s\t%.4f\n", code, cached.Rates[code])
			}
			return nil
		},
	}
}

func ratesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fresh exchange rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, kv, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			cached, err := rates.New(kv).Refresh(ctx)
			if err != nil {
				return fmt.Errorf("failed to refresh rates: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Refreshed %d rate(s) against %s",
				len(cached.Rates), cached.Base)))
			return nil
		},
	}
}
