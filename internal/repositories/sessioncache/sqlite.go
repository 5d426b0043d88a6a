// Package sessioncache persists the resumable state of study sessions,
// keyed by topic and field. Entries of a topic are removed together by
// ClearTopic, or by the cascade when the topic itself is deleted.
package sessioncache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns (nil, nil) when nothing is stored under key.
func (r *SQLiteRepository) Get(ctx context.Context, key Key) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_cache WHERE topic_id = ? AND field = ?`, key.TopicID, string(key.Field)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Classify(fmt.Sprintf("failed to get %s", key), err)
	}
	return value, nil
}

// Set upserts the value stored under key.
func (r *SQLiteRepository) Set(ctx context.Context, key Key, value []byte) error {
	if !key.Field.Valid() {
		return fmt.Errorf("unknown session field %q: %w", key.Field, common.ErrInvalidInput)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_cache (topic_id, field, value) VALUES (?, ?, ?)
		ON CONFLICT(topic_id, field) DO UPDATE SET value = excluded.value
	`, key.TopicID, string(key.Field), value)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to set %s", key), err)
	}
	return nil
}

// ListTopic returns every stored field of a topic. The map is empty when the
// topic has no saved session.
func (r *SQLiteRepository) ListTopic(ctx context.Context, topicID int64) (map[Field][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT field, value FROM session_cache WHERE topic_id = ?`, topicID)
	if err != nil {
		return nil, dbx.Classify("failed to list session cache", err)
	}
	defer rows.Close()

	result := make(map[Field][]byte)
	for rows.Next() {
		var field string
		var value []byte
		if err := rows.Scan(&field, &value); err != nil {
			return nil, dbx.Classify("failed to scan session cache row", err)
		}
		result[Field(field)] = value
	}

	if err := rows.Err(); err != nil {
		return nil, dbx.Classify("failed to iterate session cache rows", err)
	}

	return result, nil
}

// ClearTopic drops all stored fields of a topic. Clearing an empty topic is
// not an error.
func (r *SQLiteRepository) ClearTopic(ctx context.Context, topicID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_cache WHERE topic_id = ?`, topicID)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to clear session cache of topic[%d]", topicID), err)
	}
	return nil
}
