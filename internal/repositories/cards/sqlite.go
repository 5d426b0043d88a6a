// Package cards provides persistence of flashcards. Cards are written once,
// in a batch right after their topic, and are never updated; they are
// removed only by the cascade of their topic.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// CreateBatch inserts cards in slice order with order numbers 1..N and fills
// in ID, OrderNumber and TopicID of each element. Run it inside the same
// transaction as the topic insert.
func (r *SQLiteRepository) CreateBatch(ctx context.Context, topicID int64, cards []models.Card) error {
	for i := range cards {
		c := &cards[i]
		c.OrderNumber = i + 1
		c.TopicID = topicID

		res, err := r.db.ExecContext(ctx,
			`INSERT INTO card (question, answer, order_number, topic_id) VALUES (?, ?, ?, ?)`,
			c.Question, c.Answer, c.OrderNumber, topicID)
		if err != nil {
			return dbx.Classify(fmt.Sprintf("failed to create card %d of topic[%d]", c.OrderNumber, topicID), err)
		}
		if c.ID, err = res.LastInsertId(); err != nil {
			return dbx.Classify("failed to read card id", err)
		}
	}
	return nil
}

// ListByTopic returns the cards of a topic in order.
func (r *SQLiteRepository) ListByTopic(ctx context.Context, topicID int64) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, answer, order_number, topic_id FROM card
		WHERE topic_id = ? ORDER BY order_number`, topicID)
	if err != nil {
		return nil, dbx.Classify("failed to list cards", err)
	}
	defer rows.Close()

	result := make([]models.Card, 0)
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.OrderNumber, &c.TopicID); err != nil {
			return nil, dbx.Classify("failed to scan card row", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify("failed to iterate card rows", err)
	}
	return result, nil
}

// GetByOrder returns (nil, nil) if the topic has no card at that position.
func (r *SQLiteRepository) GetByOrder(ctx context.Context, topicID int64, orderNumber int) (*models.Card, error) {
	var c models.Card
	err := r.db.QueryRowContext(ctx, `
		SELECT id, question, answer, order_number, topic_id FROM card
		WHERE topic_id = ? AND order_number = ?`, topicID, orderNumber).
		Scan(&c.ID, &c.Question, &c.Answer, &c.OrderNumber, &c.TopicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Classify("failed to get card", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card WHERE topic_id = ?`, topicID).Scan(&n); err != nil {
		return 0, dbx.Classify("failed to count cards", err)
	}
	return n, nil
}
