package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTopicCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topic",
		Aliases: []string{"topics"},
		Short:   "Browse and delete generated topics",
	}
	cmd.AddCommand(
		newTopicListCmd(st),
		newTopicShowCmd(st),
		newTopicDeleteCmd(st),
		newTopicRecentCmd(st),
	)
	return cmd
}

func newTopicListCmd(st *state) *cobra.Command {
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List topics, optionally of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			if categoryID == 0 {
				topics, err := a.topicService.List(ctx, sess)
				if err != nil {
					return err
				}
				if len(topics) == 0 {
					fmt.Fprintln(a.out, "No topics yet. Create one with `cardiq generate`.")
					return nil
				}
				return writeSummaries(a.out, topics)
			}

			topics, err := a.topicService.ListByCategory(ctx, sess, categoryID)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(a.out, "No topics in this category.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCARDS\tADDED\tLAST STUDIED")
			for _, t := range topics {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
					t.ID, t.Title, t.CardCount, formatDay(t.AddedAt), formatActivity(t.ActivityAt))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	return cmd
}

func newTopicShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a topic with its cards",
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
			t, err := a.topicService.Get(ctx, sess, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s\n%s\n", t.Title, t.Description)
			fmt.Fprintf(a.out, "Added %s, last studied %s, %d cards\n\n",
				formatDay(t.AddedAt), formatActivity(t.ActivityAt), t.CardCount)
			for _, c := range t.Cards {
				fmt.Fprintf(a.out, "%d. %s\n   %s\n", c.OrderNumber, c.Question, c.Answer)
			}
			return nil
		},
	}
}

func newTopicDeleteCmd(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a topic and its cards",
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
			t, err := a.topicService.Get(ctx, sess, id)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete topic %q?", t.Title))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.topicService.Delete(ctx, sess, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Topic %q deleted.\n", t.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newTopicRecentCmd(st *state) *cobra.Command {
	var added bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently studied topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			list := a.topicService.RecentActivity
			empty := "Nothing studied yet."
			if added {
				list = a.topicService.RecentlyAdded
				empty = "No topics yet."
			}
			topics, err := list(ctx, sess)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(a.out, empty)
				return nil
			}
			return writeSummaries(a.out, topics)
		},
	}

	cmd.Flags().BoolVar(&added, "added", false, "show recently added topics instead")
	return cmd
}
