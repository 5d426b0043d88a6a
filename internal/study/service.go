package study

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
)

// Service starts study sessions.
type Service struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
	now   func() time.Time
	pick  func(n int) int
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *Service {
	return &Service{db: db, repos: repos, log: log, now: time.Now, pick: rand.IntN}
}

// Start opens a session on a topic of the session user, resuming cached
// progress when there is any. It records the start as the topic's latest
// activity. A topic without cards is reported as common.ErrNotFound.
func (s *Service) Start(ctx context.Context, sess *auth.Session, topicID int64) (*Session, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	topic, err := s.ownedTopic(ctx, sess, topicID)
	if err != nil {
		return nil, err
	}

	cards, err := s.repos.Cards(s.db).ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("topic[%d] has no cards: %w", topicID, common.ErrNotFound)
	}

	if err := s.repos.Topics(s.db).Touch(ctx, topicID, s.now()); err != nil {
		return nil, err
	}

	progress, err := s.loadProgress(ctx, topicID)
	if err != nil {
		return nil, err
	}
	progress.CurrentIndex = min(max(progress.CurrentIndex, 0), len(cards)-1)

	s.log.Debug(ctx, "study session started", "user_id", sess.UserID, "topic_id", topicID,
		"cards", len(cards), "index", progress.CurrentIndex)

	return &Session{
		topic:    *topic,
		cards:    cards,
		progress: progress,
		phase:    PhaseShowing,
		flipped:  progress.IsRevealed(progress.CurrentIndex),
		db:       s.db,
		repos:    s.repos,
		log:      s.log,
		now:      s.now,
		pick:     s.pick,
	}, nil
}

// PlayAgain discards cached progress and starts over from the first card.
func (s *Service) PlayAgain(ctx context.Context, sess *auth.Session, topicID int64) (*Session, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	if _, err := s.ownedTopic(ctx, sess, topicID); err != nil {
		return nil, err
	}
	if err := s.repos.SessionCache(s.db).ClearTopic(ctx, topicID); err != nil {
		return nil, err
	}
	return s.Start(ctx, sess, topicID)
}

// loadProgress reads the cached state. Unreadable state is dropped and the
// session starts fresh.
func (s *Service) loadProgress(ctx context.Context, topicID int64) (*Progress, error) {
	fields, err := s.repos.SessionCache(s.db).ListTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	p, err := DecodeProgress(fields)
	if err != nil {
		s.log.Warn(ctx, "discarding unreadable study progress", "topic_id", topicID, "error", err)
		if err := s.repos.SessionCache(s.db).ClearTopic(ctx, topicID); err != nil {
			return nil, err
		}
		return newProgress(), nil
	}
	return p, nil
}

func (s *Service) ownedTopic(ctx context.Context, sess *auth.Session, topicID int64) (*models.Topic, error) {
	t, err := s.repos.Topics(s.db).GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != sess.UserID {
		return nil, fmt.Errorf("topic[%d]: %w", topicID, common.ErrNotFound)
	}
	return t, nil
}
