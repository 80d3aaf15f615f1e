package main

import (
	"fmt"
	"strings"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/money"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change settings",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			prefs, err := store.Preferences(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Settings"))
			fmt.Printf("  Base currency:    %s\n", prefs.Currency)
			fmt.Printf("  Display currency: %s\n", prefs.DisplayCurrency)
			fmt.Printf("  Theme:            %s\n", prefs.Theme)
			if prefs.MonthlyBudgetCents > 0 {
				fmt.Printf("  Monthly budget:   %s %s\n",
					prefs.Currency, money.FormatDecimal(prefs.MonthlyBudgetCents))
			} else {
				fmt.Printf("  Monthly budget:   %s\n", cli.SubtleStyle.Render("not set"))
			}
			fmt.Printf("  Categories:       %d\n", len(prefs.Categories))
			if !prefs.LastUpdated.IsZero() {
				fmt.Printf("  Last updated:     %s\n",
					cli.SubtleStyle.Render(prefs.LastUpdated.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. Keys:

  display-currency  three-letter code used when showing amounts (e.g. EUR)
  theme             light or dark
  monthly-budget    default overall budget, e.g. 1200 or 1200.50 (0 clears it)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, value := args[0], args[1]

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			prefs, err := store.Preferences(ctx)
			if err != nil {
				return err
			}

			switch key {
			case "display-currency":
				code := strings.ToUpper(strings.TrimSpace(value))
				if len(code) != 3 {
					return common.NewUserError(fmt.Sprintf("currency %q must be a three-letter code", value), nil)
				}
				prefs.DisplayCurrency = code
			case "theme":
				if value != model.ThemeLight && value != model.ThemeDark {
					return common.NewUserError(fmt.Sprintf("theme %q must be %s or %s",
						value, model.ThemeLight, model.ThemeDark), nil)
				}
				prefs.Theme = value
			case "monthly-budget":
				if value == "0" {
					prefs.MonthlyBudgetCents = 0
					break
				}
				cents, err := parseAmountArg(value)
				if err != nil {
					return err
				}
				prefs.MonthlyBudgetCents = cents
			default:
				return common.NewUserError(fmt.Sprintf("unknown setting %q", key), nil)
			}

			if err := store.SavePreferences(ctx, prefs); err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Set %s to %s", key, value)))
			return nil
		},
	}
}
