package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/models"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", s, common.ErrInvalidInput)
	}
	return id, nil
}

// confirm asks question and reports "Cancelled." on a negative answer.
func (a *App) confirm(question string) (bool, error) {
	ok, err := Confirm(a.reader, question, a.out)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
	}
	return ok, nil
}

func formatDay(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

func formatActivity(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// writeSummaries prints topics joined with their category as a table.
func writeSummaries(w io.Writer, topics []models.TopicSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tCARDS\tADDED\tLAST STUDIED")
	for _, t := range topics {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			t.ID, t.Title, t.CategoryName, t.CardCount, formatDay(t.AddedAt), formatActivity(t.ActivityAt))
	}
	return tw.Flush()
}
