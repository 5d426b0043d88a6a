package categories

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

func (r *SQLiteRepository) Create(ctx context.Context, c *models.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO category (name, color, user_id) VALUES (?, ?, ?)`, c.Name, c.Color, c.UserID)
	if err != nil {
		return 0, dbx.Classify("failed to create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbx.Classify("failed to read category id", err)
	}
	c.ID = id
	return id, nil
}

// GetByID returns (nil, nil) if the category does not exist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, user_id FROM category WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Classify(fmt.Sprintf("failed to get category[%d]", id), err)
	}
	return &c, nil
}

// ListByUser returns the categories of userID ordered by name.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, user_id FROM category WHERE user_id = ? ORDER BY name COLLATE NOCASE, id`, userID)
	if err != nil {
		return nil, dbx.Classify("failed to list categories", err)
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.UserID); err != nil {
			return nil, dbx.Classify("failed to scan category row", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify("failed to iterate category rows", err)
	}
	return result, nil
}

// Rename changes the category name. The per-user uniqueness still applies.
func (r *SQLiteRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE category SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to rename category[%d]", id), err)
	}
	return requireAffected(res, id)
}

// Delete removes the category; its topics and their cards go with it.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM category WHERE id = ?`, id)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to delete category[%d]", id), err)
	}
	return requireAffected(res, id)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, dbx.Classify("failed to count categories", err)
	}
	return n, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify("failed to read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("category[%d]: %w", id, common.ErrNotFound)
	}
	return nil
}
