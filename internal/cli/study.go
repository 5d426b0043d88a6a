package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func newStudyCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "study <topicID>",
		Short: "Study a topic card by card",
		Long: "Study a topic card by card. Leaving with Ctrl-D keeps your place for the\n" +
			"next run; q abandons the session.",
		Args: cobra.ExactArgs(1),
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

			s, err := a.studyService.Start(ctx, sess, id)
			if err != nil {
				return err
			}
			a.log.Debug(ctx, "study session started", "topic_id", id, "index", s.View().Index)

			scanner := bufio.NewScanner(a.reader)
			for {
				sum, err := runStudy(ctx, s, scanner, a.out)
				if err != nil {
					return err
				}
				if sum == nil {
					return nil
				}
				renderSummary(a.out, sum)

				fmt.Fprint(a.out, "Play again? (y/N): ")
				if !scanner.Scan() || !isYes(scanner.Text()) {
					return nil
				}
				if s, err = a.studyService.PlayAgain(ctx, sess, id); err != nil {
					return err
				}
				a.log.Debug(ctx, "study session restarted", "topic_id", id)
			}
		},
	}
}

func newProfileCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show streaks, totals and recent topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			o, err := a.statsService.Overview(ctx, sess)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s <%s>\n\n", o.Username, o.Email)
			fmt.Fprintf(a.out, "Current streak:      %s\n", days(o.CurrentStreak))
			fmt.Fprintf(a.out, "Longest streak:      %s\n", days(o.LongestStreak))
			fmt.Fprintf(a.out, "Topics:              %d\n", o.TotalTopics)
			fmt.Fprintf(a.out, "Categories:          %d\n", o.TotalCategories)
			fmt.Fprintf(a.out, "Reviewed this week:  %d\n", o.ReviewedThisWeek)

			if len(o.RecentActivity) > 0 {
				fmt.Fprintln(a.out, "\nRecent activity")
				if err := writeSummaries(a.out, o.RecentActivity); err != nil {
					return err
				}
			}
			if len(o.RecentlyAdded) > 0 {
				fmt.Fprintln(a.out, "\nRecently added")
				if err := writeSummaries(a.out, o.RecentlyAdded); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
