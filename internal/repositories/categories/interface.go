package categories

import (
	"context"

	"github.com/dmitrijs2005/cardiq/internal/models"
)

// Repository persists user categories.
type Repository interface {
	Create(ctx context.Context, c *models.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Category, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}
