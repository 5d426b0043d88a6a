package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/models"
)

// Deck is the parsed model reply.
type Deck struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Flashcards  []Flashcard `json:"flashcards"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Cards converts the flashcards to store records, in reply order.
// Order numbers are assigned by the cards repository.
func (d *Deck) Cards() []models.Card {
	out := make([]models.Card, len(d.Flashcards))
	for i, f := range d.Flashcards {
		out[i] = models.Card{Question: f.Question, Answer: f.Answer}
	}
	return out
}

// ParseDeck decodes a model reply, tolerating a surrounding markdown code
// fence. Incomplete decks are rejected with common.ErrGenerationFailure.
func ParseDeck(raw string) (*Deck, error) {
	body := StripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", common.ErrGenerationFailure)
	}

	var d Deck
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %w", common.ErrGenerationFailure, err)
	}

	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return nil, fmt.Errorf("%w: reply has no title", common.ErrGenerationFailure)
	}
	if d.Description == "" {
		return nil, fmt.Errorf("%w: reply has no description", common.ErrGenerationFailure)
	}
	if len(d.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: reply has no flashcards", common.ErrGenerationFailure)
	}
	for i := range d.Flashcards {
		f := &d.Flashcards[i]
		f.Question = strings.TrimSpace(f.Question)
		f.Answer = strings.TrimSpace(f.Answer)
		if f.Question == "" || f.Answer == "" {
			return nil, fmt.Errorf("%w: flashcard %d is incomplete", common.ErrGenerationFailure, i+1)
		}
	}

	return &d, nil
}

// StripFences removes a leading ``` or ```json line and a trailing ```
// together with the surrounding whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// language tag, if any, runs up to the first newline
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			tag := strings.TrimSpace(s[:nl])
			if tag == "" || !strings.ContainsAny(tag, "{[") {
				s = s[nl+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(s)
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
