package users

import (
	"context"

	"github.com/dmitrijs2005/cardiq/internal/models"
)

// Repository persists device accounts.
type Repository interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	RaiseLongestStreak(ctx context.Context, id int64, streak int) (int, error)
}
