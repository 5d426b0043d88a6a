package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
	"github.com/dmitrijs2005/cardiq/internal/repositories/sessioncache"
)

var (
	// ErrNotRevealed is returned by Advance before the current card was revealed.
	ErrNotRevealed = errors.New("current card has not been revealed")
	// ErrSessionOver is returned by actions on a completed or abandoned session.
	ErrSessionOver = errors.New("study session is over")
)

// Phase is the lifecycle state of a Session.
type Phase int

const (
	PhaseShowing Phase = iota
	PhaseComplete
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseShowing:
		return "showing"
	case PhaseComplete:
		return "complete"
	case PhaseAbandoned:
		return "abandoned"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// View is a read-only snapshot of a session for rendering.
type View struct {
	Phase      Phase
	TopicID    int64
	TopicTitle string
	Index      int
	Total      int
	Card       models.Card
	Flipped    bool
	Revealed   bool
	Answer     string
	// Feedback of the current card, nil until it is first revealed.
	Feedback *Feedback
	// Progress is (Index+1)/Total.
	Progress         float64
	EstimatedMinutes int
}

// Session walks the cards of one topic. It is not safe for concurrent use.
// Every change to the resumable state is written to the session cache.
type Session struct {
	topic    models.Topic
	cards    []models.Card
	progress *Progress

	phase   Phase
	flipped bool
	answer  string

	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
	now   func() time.Time
	pick  func(n int) int
}

// SetAnswer stores the typed answer of the current card.
func (s *Session) SetAnswer(text string) {
	s.answer = text
}

// Reveal flips the current card. The first reveal of a card marks it
// revealed and completed, scores the typed answer unless feedback already
// exists, and persists progress. Later calls only toggle the flip.
func (s *Session) Reveal(ctx context.Context) error {
	if s.phase != PhaseShowing {
		return ErrSessionOver
	}
	if s.flipped {
		s.flipped = false
		return nil
	}
	s.flipped = true

	i := s.progress.CurrentIndex
	changed := false
	if !s.progress.IsRevealed(i) {
		s.progress.Revealed[i] = struct{}{}
		s.progress.Completed[i] = struct{}{}
		changed = true
	}
	if _, ok := s.progress.Feedback[i]; !ok {
		fb := Score(s.answer, s.cards[i].Answer, s.pick)
		fb.Timestamp = s.now().UTC()
		s.progress.Feedback[i] = fb
		changed = true

		s.log.Debug(ctx, "card scored", "topic_id", s.topic.ID, "index", i, "result", fb.Correct.String())
	}
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// Advance moves to the next card. On the last card the session completes,
// its cache is cleared and the summary is returned; otherwise the summary
// is nil.
func (s *Session) Advance(ctx context.Context) (*Summary, error) {
	if s.phase != PhaseShowing {
		return nil, ErrSessionOver
	}
	i := s.progress.CurrentIndex
	if !s.progress.IsRevealed(i) {
		return nil, ErrNotRevealed
	}

	if i == len(s.cards)-1 {
		if err := s.repos.SessionCache(s.db).ClearTopic(ctx, s.topic.ID); err != nil {
			return nil, err
		}
		s.phase = PhaseComplete
		s.flipped = false

		sum := Summarize(s.progress.Feedback, len(s.cards), s.cards)
		sum.Revealed = sortedSet(s.progress.Revealed)
		sum.Completed = sortedSet(s.progress.Completed)
		s.log.Info(ctx, "study session complete", "topic_id", s.topic.ID, "score", sum.Score, "total", sum.Total)
		return &sum, nil
	}

	s.progress.CurrentIndex = i + 1
	s.answer = ""
	s.flipped = false
	return nil, s.persist(ctx)
}

// Retreat moves to the previous card, showing its answer side if it was
// revealed before. Recorded feedback is kept. It does nothing on the first card.
func (s *Session) Retreat(ctx context.Context) error {
	if s.phase != PhaseShowing {
		return ErrSessionOver
	}
	i := s.progress.CurrentIndex
	if i == 0 {
		return nil
	}

	s.progress.CurrentIndex = i - 1
	s.answer = ""
	s.flipped = s.progress.IsRevealed(i - 1)
	return s.persist(ctx)
}

// Abandon clears the cached progress of the topic and ends the session.
func (s *Session) Abandon(ctx context.Context) error {
	if err := s.repos.SessionCache(s.db).ClearTopic(ctx, s.topic.ID); err != nil {
		return err
	}
	s.phase = PhaseAbandoned
	s.flipped = false
	s.log.Debug(ctx, "study session abandoned", "topic_id", s.topic.ID)
	return nil
}

// View returns a snapshot of the current state.
func (s *Session) View() View {
	total := len(s.cards)
	i := s.progress.CurrentIndex

	v := View{
		Phase:            s.phase,
		TopicID:          s.topic.ID,
		TopicTitle:       s.topic.Title,
		Index:            i,
		Total:            total,
		Card:             s.cards[i],
		Flipped:          s.flipped,
		Revealed:         s.progress.IsRevealed(i),
		Answer:           s.answer,
		Progress:         float64(i+1) / float64(total),
		EstimatedMinutes: int(math.Ceil(float64(total) * 0.5)),
	}
	if fb, ok := s.progress.Feedback[i]; ok {
		v.Feedback = &fb
	}
	return v
}

// Progress returns a copy of the resumable state.
func (s *Session) Progress() Progress {
	p := newProgress()
	for k := range s.progress.Revealed {
		p.Revealed[k] = struct{}{}
	}
	for k := range s.progress.Completed {
		p.Completed[k] = struct{}{}
	}
	for k, v := range s.progress.Feedback {
		p.Feedback[k] = v
	}
	p.CurrentIndex = s.progress.CurrentIndex
	return *p
}

// persist writes all four cached fields in one transaction.
func (s *Session) persist(ctx context.Context) error {
	fields, err := s.progress.Encode()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cache := s.repos.SessionCache(tx)
		for _, f := range sessioncache.Fields {
			if err := cache.Set(ctx, sessioncache.Key{TopicID: s.topic.ID, Field: f}, fields[f]); err != nil {
				return err
			}
		}
		return nil
	})
}
