package cards

import (
	"context"

	"github.com/dmitrijs2005/cardiq/internal/models"
)

// Repository persists the question/answer pairs of a topic.
type Repository interface {
	CreateBatch(ctx context.Context, topicID int64, cards []models.Card) error
	ListByTopic(ctx context.Context, topicID int64) ([]models.Card, error)
	GetByOrder(ctx context.Context, topicID int64, orderNumber int) (*models.Card, error)
	CountByTopic(ctx context.Context, topicID int64) (int, error)
}
