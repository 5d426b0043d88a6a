package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/palette"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
)

// CategoryService manages the categories of the logged-in user.
type CategoryService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
	seed  func() uint64
}

func NewCategoryService(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *CategoryService {
	return &CategoryService{db: db, repos: repos, log: log, seed: rand.Uint64}
}

// Create adds a category with a generated display color. Names are unique
// per user; a duplicate yields common.ErrConstraintViolation.
func (s *CategoryService) Create(ctx context.Context, sess *auth.Session, name string) (*models.Category, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name must not be empty: %w", common.ErrInvalidInput)
	}

	c := &models.Category{
		Name:   name,
		Color:  palette.ColorFor(s.seed()).Hex(),
		UserID: sess.UserID,
	}
	id, err := s.repos.Categories(s.db).Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.log.Debug(ctx, "category created", "user_id", sess.UserID, "category_id", id)
	return c, nil
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, sess *auth.Session) ([]models.Category, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	return s.repos.Categories(s.db).ListByUser(ctx, sess.UserID)
}

// Get returns a category owned by the session user.
func (s *CategoryService) Get(ctx context.Context, sess *auth.Session, id int64) (*models.Category, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	return ownedCategory(ctx, s.repos, s.db, sess, id)
}

func (s *CategoryService) Rename(ctx context.Context, sess *auth.Session, id int64, name string) error {
	if err := auth.Require(sess); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name must not be empty: %w", common.ErrInvalidInput)
	}
	if _, err := ownedCategory(ctx, s.repos, s.db, sess, id); err != nil {
		return err
	}
	return s.repos.Categories(s.db).Rename(ctx, id, name)
}

// Delete removes the category together with its topics and their cards.
func (s *CategoryService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	if err := auth.Require(sess); err != nil {
		return err
	}
	if _, err := ownedCategory(ctx, s.repos, s.db, sess, id); err != nil {
		return err
	}
	if err := s.repos.Categories(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "category deleted", "user_id", sess.UserID, "category_id", id)
	return nil
}

func ownedCategory(ctx context.Context, repos repomanager.RepositoryManager, db *sql.DB, sess *auth.Session, id int64) (*models.Category, error) {
	c, err := repos.Categories(db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != sess.UserID {
		return nil, fmt.Errorf("category[%d]: %w", id, common.ErrNotFound)
	}
	return c, nil
}

func ownedTopic(ctx context.Context, repos repomanager.RepositoryManager, db *sql.DB, sess *auth.Session, id int64) (*models.Topic, error) {
	t, err := repos.Topics(db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != sess.UserID {
		return nil, fmt.Errorf("topic[%d]: %w", id, common.ErrNotFound)
	}
	return t, nil
}
