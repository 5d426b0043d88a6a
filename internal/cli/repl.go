package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/study"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

// studySession is the part of *study.Session the REPL drives.
// Tests can provide a lightweight stub.
type studySession interface {
	View() study.View
	SetAnswer(text string)
	Reveal(ctx context.Context) error
	Advance(ctx context.Context) (*study.Summary, error)
	Retreat(ctx context.Context) error
	Abandon(ctx context.Context) error
}

const studyHelp = "Commands: (r)eveal, (n)ext, (p)rev, (a)nswer <text>, (q)uit. Any other text is taken as your answer."

// runStudy reads commands from scanner, applies them to s and writes the
// cards to w until the last card is passed, the user quits or input ends.
//
//	r | reveal        flip the card; the first flip scores the typed answer
//	n | next          go to the next card, or finish after the last one
//	p | prev          go back one card
//	a | answer <text> type an answer for the current card
//	q | quit          abandon the session
//	h | help          list the commands
//
// The summary is returned only when the session completes. At end of input
// the session is left as is, so the next start resumes it.
func runStudy(ctx context.Context, s studySession, scanner *bufio.Scanner, w io.Writer) (*study.Summary, error) {
	printlnFn(w, studyHelp)
	renderCard(w, s.View())

	for {
		fmt.Fprint(w, "study> ")
		if !scanner.Scan() {
			return nil, scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch strings.ToLower(cmd) {
		case "h", "help":
			printlnFn(w, studyHelp)

		case "r", "reveal":
			if err := s.Reveal(ctx); err != nil {
				return nil, err
			}
			renderCard(w, s.View())

		case "n", "next":
			sum, err := s.Advance(ctx)
			if errors.Is(err, study.ErrNotRevealed) {
				printlnFn(w, "Reveal the answer first (r).")
				continue
			}
			if err != nil {
				return nil, err
			}
			if sum != nil {
				return sum, nil
			}
			renderCard(w, s.View())

		case "p", "prev":
			if err := s.Retreat(ctx); err != nil {
				return nil, err
			}
			renderCard(w, s.View())

		case "a", "answer":
			s.SetAnswer(rest)
			printlnFn(w, "Answer saved. Type r to reveal.")

		case "q", "quit":
			if err := s.Abandon(ctx); err != nil {
				return nil, err
			}
			printlnFn(w, "Session abandoned.")
			return nil, nil

		default:
			s.SetAnswer(line)
			printlnFn(w, "Answer saved. Type r to reveal.")
		}
	}
}

func renderCard(w io.Writer, v study.View) {
	printlnFn(w, fmt.Sprintf("%s  card %d/%d %s  ~%d min",
		v.TopicTitle, v.Index+1, v.Total, progressBar(v.Progress, 20), v.EstimatedMinutes))
	printlnFn(w, "Q: "+v.Card.Question)
	if v.Answer != "" {
		printlnFn(w, "Your answer: "+v.Answer)
	}
	if !v.Flipped {
		return
	}
	printlnFn(w, "A: "+v.Card.Answer)
	if v.Feedback != nil {
		printlnFn(w, fmt.Sprintf("%s %s", correctnessMark(v.Feedback.Correct), v.Feedback.Message))
	}
}

func renderSummary(w io.Writer, sum *study.Summary) {
	printlnFn(w, fmt.Sprintf("Done! Score %d/%d (%d%%)", sum.Score, sum.Total, sum.Percent()))
	sections := []struct {
		title string
		items []study.SummaryItem
	}{
		{"Correct", sum.Correct},
		{"Incorrect", sum.Incorrect},
		{"Skipped", sum.Skipped},
	}
	for _, sec := range sections {
		if len(sec.items) == 0 {
			continue
		}
		printlnFn(w, fmt.Sprintf("%s (%d):", sec.title, len(sec.items)))
		for _, it := range sec.items {
			line := fmt.Sprintf("  %d. %s -> %s", it.Index+1, it.Question, it.Answer)
			if it.UserAnswer != "" {
				line += fmt.Sprintf(" (you: %s)", it.UserAnswer)
			}
			if it.Message != "" {
				line += " " + it.Message
			}
			printlnFn(w, line)
		}
	}
}

func progressBar(frac float64, width int) string {
	filled := int(frac*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func correctnessMark(c study.Correctness) string {
	switch c {
	case study.Correct:
		return "[+]"
	case study.Incorrect:
		return "[-]"
	}
	return "[?]"
}
