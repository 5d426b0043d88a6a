package study

import (
	"math"

	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/samber/lo"
)

// SummaryItem is one card in a completion bucket.
type SummaryItem struct {
	Index      int
	Question   string
	Answer     string
	UserAnswer string
	Message    string
}

// Summary groups the cards of a finished session by result.
type Summary struct {
	Correct   []SummaryItem
	Incorrect []SummaryItem
	Skipped   []SummaryItem
	Score     int
	Total     int

	// Card indexes flipped and finished during the session, ascending.
	// Filled by Session.Advance; Summarize leaves them empty.
	Revealed  []int
	Completed []int
}

// Percent is Score out of Total, rounded to the nearest integer.
func (s Summary) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Score) * 100 / float64(s.Total)))
}

// Summarize places every card index in [0, total) in exactly one bucket.
// Cards without feedback, or with Unknown correctness, are skipped.
func Summarize(feedback map[int]Feedback, total int, cards []models.Card) Summary {
	if total < 0 {
		total = 0
	}
	s := Summary{
		Correct:   []SummaryItem{},
		Incorrect: []SummaryItem{},
		Skipped:   []SummaryItem{},
		Total:     total,
	}

	for _, i := range lo.Range(total) {
		item := SummaryItem{Index: i}
		if i < len(cards) {
			item.Question = cards[i].Question
			item.Answer = cards[i].Answer
		}

		fb, ok := feedback[i]
		if ok {
			item.UserAnswer = fb.UserAnswer
			item.Message = fb.Message
		}

		switch {
		case ok && fb.Correct == Correct:
			s.Correct = append(s.Correct, item)
		case ok && fb.Correct == Incorrect:
			s.Incorrect = append(s.Incorrect, item)
		default:
			s.Skipped = append(s.Skipped, item)
		}
	}

	s.Score = len(s.Correct)
	return s
}
