package topics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/models"
)

const (
	topicColumns   = `t.id, t.title, t.description, t.card_count, t.added_datetime, t.activity_datetime, t.category_id, t.user_id`
	summaryColumns = topicColumns + `, c.name, c.color`
	summaryFrom    = `FROM topic t JOIN category c ON c.id = t.category_id`
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts t. A zero AddedAt leaves the creation time to the store.
func (r *SQLiteRepository) Create(ctx context.Context, t *models.Topic) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if t.AddedAt.IsZero() {
		res, err = r.db.ExecContext(ctx, `
			INSERT INTO topic (title, description, card_count, category_id, user_id)
			VALUES (?, ?, ?, ?, ?)`,
			t.Title, t.Description, t.CardCount, t.CategoryID, t.UserID)
	} else {
		res, err = r.db.ExecContext(ctx, `
			INSERT INTO topic (title, description, card_count, added_datetime, category_id, user_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.Title, t.Description, t.CardCount, dbx.FormatTime(t.AddedAt), t.CategoryID, t.UserID)
	}
	if err != nil {
		return 0, dbx.Classify("failed to create topic", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbx.Classify("failed to read topic id", err)
	}
	t.ID = id
	return id, nil
}

// GetByID returns (nil, nil) if the topic does not exist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topic t WHERE t.id = ?`, id)

	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Classify(fmt.Sprintf("failed to get topic[%d]", id), err)
	}
	return t, nil
}

// ListByCategory returns the topics of a category, newest first.
func (r *SQLiteRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+topicColumns+` FROM topic t
		WHERE t.category_id = ?
		ORDER BY t.added_datetime DESC, t.id DESC`, categoryID)
	if err != nil {
		return nil, dbx.Classify("failed to list topics", err)
	}
	defer rows.Close()

	result := make([]models.Topic, 0)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, dbx.Classify("failed to scan topic row", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify("failed to iterate topic rows", err)
	}
	return result, nil
}

// ListByUser returns every topic of userID with its category, newest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]models.TopicSummary, error) {
	return r.querySummaries(ctx, "failed to list topics", `
		SELECT `+summaryColumns+` `+summaryFrom+`
		WHERE t.user_id = ?
		ORDER BY t.added_datetime DESC, t.id DESC`, userID)
}

// Touch records the start of a study session on the topic.
func (r *SQLiteRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE topic SET activity_datetime = ? WHERE id = ?`, dbx.FormatTime(at), id)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to touch topic[%d]", id), err)
	}
	return requireAffected(res, id)
}

// Delete removes the topic together with its cards.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topic WHERE id = ?`, id)
	if err != nil {
		return dbx.Classify(fmt.Sprintf("failed to delete topic[%d]", id), err)
	}
	return requireAffected(res, id)
}

// RecentActivity returns studied topics, most recently studied first.
// Topics that were never studied are left out. limit <= 0 means
// common.DefaultRecentActivityLimit.
func (r *SQLiteRepository) RecentActivity(ctx context.Context, userID int64, limit int) ([]models.TopicSummary, error) {
	if limit <= 0 {
		limit = common.DefaultRecentActivityLimit
	}
	return r.querySummaries(ctx, "failed to select recent activity", `
		SELECT `+summaryColumns+` `+summaryFrom+`
		WHERE t.user_id = ? AND t.activity_datetime IS NOT NULL
		ORDER BY t.activity_datetime DESC, t.id DESC
		LIMIT ?`, userID, limit)
}

// RecentlyAdded returns topics by creation time, newest first.
// limit <= 0 means common.DefaultRecentlyAddedLimit.
func (r *SQLiteRepository) RecentlyAdded(ctx context.Context, userID int64, limit int) ([]models.TopicSummary, error) {
	if limit <= 0 {
		limit = common.DefaultRecentlyAddedLimit
	}
	return r.querySummaries(ctx, "failed to select recently added", `
		SELECT `+summaryColumns+` `+summaryFrom+`
		WHERE t.user_id = ?
		ORDER BY t.added_datetime DESC, t.id DESC
		LIMIT ?`, userID, limit)
}

// AddedDates returns the creation times of all topics of userID, newest first.
func (r *SQLiteRepository) AddedDates(ctx context.Context, userID int64) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT added_datetime FROM topic WHERE user_id = ? ORDER BY added_datetime DESC`, userID)
	if err != nil {
		return nil, dbx.Classify("failed to select creation dates", err)
	}
	defer rows.Close()

	result := make([]time.Time, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, dbx.Classify("failed to scan creation date", err)
		}
		ts, err := dbx.ParseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrIOFailure, err)
		}
		result = append(result, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify("failed to iterate creation dates", err)
	}
	return result, nil
}

// CountActiveBetween counts distinct topics of userID studied in [from, to).
func (r *SQLiteRepository) CountActiveBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT id) FROM topic
		WHERE user_id = ? AND activity_datetime >= ? AND activity_datetime < ?`,
		userID, dbx.FormatTime(from), dbx.FormatTime(to)).Scan(&n)
	if err != nil {
		return 0, dbx.Classify("failed to count active topics", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topic WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, dbx.Classify("failed to count topics", err)
	}
	return n, nil
}

func (r *SQLiteRepository) querySummaries(ctx context.Context, op, query string, args ...any) ([]models.TopicSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	result := make([]models.TopicSummary, 0)
	for rows.Next() {
		var s models.TopicSummary
		var added string
		var activity sql.NullString
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.CardCount, &added, &activity,
			&s.CategoryID, &s.UserID, &s.CategoryName, &s.CategoryColor)
		if err != nil {
			return nil, dbx.Classify(op, err)
		}
		if err := fillTimes(&s.Topic, added, activity); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, common.ErrIOFailure, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(s scanner) (*models.Topic, error) {
	var t models.Topic
	var added string
	var activity sql.NullString
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.CardCount, &added, &activity, &t.CategoryID, &t.UserID); err != nil {
		return nil, err
	}
	if err := fillTimes(&t, added, activity); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIOFailure, err)
	}
	return &t, nil
}

func fillTimes(t *models.Topic, added string, activity sql.NullString) error {
	ts, err := dbx.ParseTime(added)
	if err != nil {
		return err
	}
	t.AddedAt = ts

	if activity.Valid {
		at, err := dbx.ParseTime(activity.String)
		if err != nil {
			return err
		}
		t.ActivityAt = &at
	}
	return nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify("failed to read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("topic[%d]: %w", id, common.ErrNotFound)
	}
	return nil
}
