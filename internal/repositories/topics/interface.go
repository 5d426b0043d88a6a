package topics

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/models"
)

// Repository persists topics and answers the derived queries built on them.
type Repository interface {
	Create(ctx context.Context, t *models.Topic) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Topic, error)
	ListByUser(ctx context.Context, userID int64) ([]models.TopicSummary, error)
	Touch(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error

	RecentActivity(ctx context.Context, userID int64, limit int) ([]models.TopicSummary, error)
	RecentlyAdded(ctx context.Context, userID int64, limit int) ([]models.TopicSummary, error)
	AddedDates(ctx context.Context, userID int64) ([]time.Time, error)
	CountActiveBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
