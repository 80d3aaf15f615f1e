package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage expense categories",
		Long:    `List, add, rename, delete and merge the categories expenses are filed under.`,
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesRenameCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	cmd.AddCommand(categoriesMergeCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
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

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Color"),
				cli.HeaderStyle.Render("ID"))
			for _, c := range prefs.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Color, cli.SubtleStyle.Render(c.ID))
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			category, err := store.AddCategory(ctx, args[0])
			if errors.Is(err, common.ErrDuplicateCategory) {
				return common.NewUserError(fmt.Sprintf("A category named %q already exists", args[0]), err)
			}
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Added category " + category.Name))
			return nil
		},
	}
}

func categoriesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category",
		Long:  `Rename a category. Existing expenses keep their recorded category string; use merge to move them.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			err = store.RenameCategory(ctx, args[0], args[1])
			switch {
			case errors.Is(err, common.ErrUnknownCategory):
				return common.NewUserError(fmt.Sprintf("No category named %q", args[0]), err)
			case errors.Is(err, common.ErrDuplicateCategory):
				return common.NewUserError(fmt.Sprintf("A category named %q already exists", args[1]), err)
			case err != nil:
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Renamed %s to %s", args[0], args[1])))
			return nil
		},
	}
}

func categoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			err = store.DeleteCategory(ctx, args[0])
			switch {
			case errors.Is(err, common.ErrUnknownCategory):
				return common.NewUserError(fmt.Sprintf("No category named %q", args[0]), err)
			case errors.Is(err, common.ErrCategoryInUse):
				return common.NewUserError(
					fmt.Sprintf("Category %q still has expenses; merge them into another category first", args[0]), err)
			case err != nil:
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Deleted category " + args[0]))
			return nil
		},
	}
}

func categoriesMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <from> <to>",
		Short: "Merge one category into another",
		Long:  `Move every expense filed under one category to another, then remove the source category.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			moved, err := store.MergeCategory(ctx, args[0], args[1])
			if errors.Is(err, common.ErrUnknownCategory) {
				return common.NewUserError("Both categories must exist before merging", err)
			}
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Merged %s into %s (%d expense(s) moved)",
				args[0], args[1], moved)))
			return nil
		},
	}
}
