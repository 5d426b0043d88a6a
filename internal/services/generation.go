package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/document"
	"github.com/dmitrijs2005/cardiq/internal/generation"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
)

// GenerationResult describes a topic created by a generation.
type GenerationResult struct {
	TopicID     int64
	Title       string
	Description string
	CardCount   int
}

// GenerationService asks the text-generation model for a deck and stores it
// as a new topic.
type GenerationService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	client    generation.Client
	documents document.Pipeline
	log       logging.Logger
}

func NewGenerationService(db *sql.DB, repos repomanager.RepositoryManager, client generation.Client,
	documents document.Pipeline, log logging.Logger) *GenerationService {
	return &GenerationService{
		db:        db,
		repos:     repos,
		client:    client,
		documents: documents,
		log:       log,
	}
}

// GenerateFromPrompt creates a topic of count cards from a free-text request.
func (s *GenerationService) GenerateFromPrompt(ctx context.Context, sess *auth.Session, prompt string, categoryID int64, count int) (*GenerationResult, error) {
	if err := checkText(prompt); err != nil {
		return nil, err
	}
	if err := s.check(ctx, sess, categoryID, count); err != nil {
		return nil, err
	}
	return s.generate(ctx, sess, generation.PromptInstruction(prompt, count), categoryID)
}

// GenerateFromDocumentText creates a topic of count cards from text already
// extracted from a document.
func (s *GenerationService) GenerateFromDocumentText(ctx context.Context, sess *auth.Session, text string, categoryID int64, count int) (*GenerationResult, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if err := s.check(ctx, sess, categoryID, count); err != nil {
		return nil, err
	}
	return s.generate(ctx, sess, generation.DocumentInstruction(text, count), categoryID)
}

// GenerateFromDocument uploads a PDF, extracts its text and generates from it.
func (s *GenerationService) GenerateFromDocument(ctx context.Context, sess *auth.Session, name string, r io.Reader, categoryID int64, count int) (*GenerationResult, error) {
	if r == nil {
		return nil, fmt.Errorf("no document given: %w", common.ErrInvalidInput)
	}
	if err := s.check(ctx, sess, categoryID, count); err != nil {
		return nil, err
	}

	text, err := s.documents.Text(ctx, name, r)
	if err != nil {
		s.log.Error(ctx, "document pipeline failed", "name", name, "error", err)
		return nil, err
	}
	s.log.Debug(ctx, "document text ready", "name", name, "chars", len(text))

	return s.GenerateFromDocumentText(ctx, sess, text, categoryID, count)
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input text is empty: %w", common.ErrInvalidInput)
	}
	return nil
}

// check runs the local validations that must pass before any network call.
func (s *GenerationService) check(ctx context.Context, sess *auth.Session, categoryID int64, count int) error {
	if err := auth.Require(sess); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("card count must be positive: %w", common.ErrInvalidInput)
	}
	_, err := ownedCategory(ctx, s.repos, s.db, sess, categoryID)
	return err
}

func (s *GenerationService) generate(ctx context.Context, sess *auth.Session, instruction string, categoryID int64) (*GenerationResult, error) {
	raw, err := s.client.Complete(ctx, instruction)
	if err != nil {
		s.log.Error(ctx, "generation request failed", "error", err)
		return nil, err
	}

	deck, err := generation.ParseDeck(raw)
	if err != nil {
		s.log.Error(ctx, "generation reply rejected", "error", err)
		return nil, err
	}

	cards := deck.Cards()
	res, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*GenerationResult, error) {
		topicID, err := s.repos.Topics(tx).Create(ctx, &models.Topic{
			Title:       deck.Title,
			Description: deck.Description,
			CardCount:   len(cards),
			CategoryID:  categoryID,
			UserID:      sess.UserID,
		})
		if err != nil {
			return nil, err
		}
		if err := s.repos.Cards(tx).CreateBatch(ctx, topicID, cards); err != nil {
			return nil, err
		}
		return &GenerationResult{
			TopicID:     topicID,
			Title:       deck.Title,
			Description: deck.Description,
			CardCount:   len(cards),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "topic generated", "user_id", sess.UserID, "topic_id", res.TopicID, "cards", res.CardCount)
	return res, nil
}
