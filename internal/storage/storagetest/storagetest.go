// Package storagetest opens migrated in-memory databases for tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/cardiq/internal/migrations"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// NewDB returns a migrated in-memory database with foreign keys enabled.
// The pool holds a single connection, as in production, so every statement
// sees the same in-memory database.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO user (username, email, password) VALUES (?, ?, ?)`, "Test User", email, "x")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedCategory inserts a category owned by userID.
func SeedCategory(t *testing.T, db *sql.DB, userID int64, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO category (name, color, user_id) VALUES (?, ?, ?)`, name, "#808080", userID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedTopic inserts a topic with the given creation timestamp (dbx.TimeLayout
// text) and optional activity timestamp ("" leaves it NULL), plus its cards.
func SeedTopic(t *testing.T, db *sql.DB, userID, categoryID int64, added, activity string, cards ...models.Card) int64 {
	t.Helper()
	var act any
	if activity != "" {
		act = activity
	}
	res, err := db.Exec(`
INSERT INTO topic (title, description, card_count, added_datetime, activity_datetime, category_id, user_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`, "Topic", "Desc", len(cards), added, act, categoryID, userID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	for i, c := range cards {
		_, err := db.Exec(`INSERT INTO card (question, answer, order_number, topic_id) VALUES (?, ?, ?, ?)`,
			c.Question, c.Answer, i+1, id)
		require.NoError(t, err)
	}
	return id
}

// Count returns SELECT COUNT(*) of the given table.
func Count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
