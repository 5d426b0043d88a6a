package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoryCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoryListCmd(st),
		newCategoryAddCmd(st),
		newCategoryRenameCmd(st),
		newCategoryDeleteCmd(st),
	)
	return cmd
}

func newCategoryListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			cats, err := a.categoryService.List(ctx, sess)
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Fprintln(a.out, "No categories yet. Add one with `cardiq category add <name>`.")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR")
			for _, c := range cats {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Color)
			}
			return tw.Flush()
		},
	}
}

func newCategoryAddCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			c, err := a.categoryService.Create(ctx, sess, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Category %q created (id %d, color %s).\n", c.Name, c.ID, c.Color)
			return nil
		},
	}
}

func newCategoryRenameCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := a.categoryService.Rename(ctx, sess, id, name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Category %d renamed to %q.\n", id, strings.TrimSpace(name))
			return nil
		},
	}
}

func newCategoryDeleteCmd(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category with all its topics and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			c, err := a.categoryService.Get(ctx, sess, id)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete category %q and all its topics?", c.Name))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.categoryService.Delete(ctx, sess, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Category %q deleted.\n", c.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
