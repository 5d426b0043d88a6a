package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a user and returns its id. A taken email yields
// common.ErrConstraintViolation.
func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user (username, email, password, long_streak) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.LongestStreak)
	if err != nil {
		return 0, dbx.Classify("failed to create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbx.Classify("failed to read user id", err)
	}
	u.ID = id
	return id, nil
}

// GetByID returns (nil, nil) if there is no such user.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, long_streak FROM user WHERE id = ?`, id)
	return scanUser(row, fmt.Sprintf("failed to get user[%d]", id))
}

// GetByEmail returns (nil, nil) if no user is registered with email.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, long_streak FROM user WHERE email = ?`, email)
	return scanUser(row, "failed to get user by email")
}

// RaiseLongestStreak stores streak as the longest streak if it beats the
// current value and returns the resulting longest streak.
func (r *SQLiteRepository) RaiseLongestStreak(ctx context.Context, id int64, streak int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user SET long_streak = MAX(long_streak, ?) WHERE id = ?`, streak, id)
	if err != nil {
		return 0, dbx.Classify("failed to update longest streak", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.Classify("failed to update longest streak", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("user[%d]: %w", id, common.ErrNotFound)
	}

	var longest int
	err = r.db.QueryRowContext(ctx, `SELECT long_streak FROM user WHERE id = ?`, id).Scan(&longest)
	if err != nil {
		return 0, dbx.Classify("failed to read longest streak", err)
	}
	return longest, nil
}

func scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.LongestStreak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return &u, nil
}
