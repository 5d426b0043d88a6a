package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
)

// TopicDetail is a topic with its cards in order.
type TopicDetail struct {
	models.Topic
	Cards []models.Card
}

// TopicService reads and deletes generated topics.
type TopicService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func NewTopicService(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *TopicService {
	return &TopicService{db: db, repos: repos, log: log}
}

// List returns all topics of the user with their category.
func (s *TopicService) List(ctx context.Context, sess *auth.Session) ([]models.TopicSummary, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	return s.repos.Topics(s.db).ListByUser(ctx, sess.UserID)
}

func (s *TopicService) ListByCategory(ctx context.Context, sess *auth.Session, categoryID int64) ([]models.Topic, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	if _, err := ownedCategory(ctx, s.repos, s.db, sess, categoryID); err != nil {
		return nil, err
	}
	return s.repos.Topics(s.db).ListByCategory(ctx, categoryID)
}

func (s *TopicService) Get(ctx context.Context, sess *auth.Session, topicID int64) (*TopicDetail, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	t, err := ownedTopic(ctx, s.repos, s.db, sess, topicID)
	if err != nil {
		return nil, err
	}
	cards, err := s.repos.Cards(s.db).ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return &TopicDetail{Topic: *t, Cards: cards}, nil
}

// Delete removes the topic and, by cascade, its cards and cached study state.
func (s *TopicService) Delete(ctx context.Context, sess *auth.Session, topicID int64) error {
	if err := auth.Require(sess); err != nil {
		return err
	}
	if _, err := ownedTopic(ctx, s.repos, s.db, sess, topicID); err != nil {
		return err
	}
	if err := s.repos.Topics(s.db).Delete(ctx, topicID); err != nil {
		return err
	}
	s.log.Info(ctx, "topic deleted", "user_id", sess.UserID, "topic_id", topicID)
	return nil
}

func (s *TopicService) RecentActivity(ctx context.Context, sess *auth.Session) ([]models.TopicSummary, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	return s.repos.Topics(s.db).RecentActivity(ctx, sess.UserID, 0)
}

func (s *TopicService) RecentlyAdded(ctx context.Context, sess *auth.Session) ([]models.TopicSummary, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	return s.repos.Topics(s.db).RecentlyAdded(ctx, sess.UserID, 0)
}
