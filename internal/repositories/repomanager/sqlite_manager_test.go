package repomanager

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestSQLiteRepositoryManager_ImplementsInterface(t *testing.T) {
	var _ RepositoryManager = NewSQLiteRepositoryManager()
}

func TestFactories_ShareOneTransaction(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	m := NewSQLiteRepositoryManager()
	ctx := context.Background()
	require.NoError(t, m.RunMigrations(ctx, db))

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		uid, err := m.Users(tx).Create(ctx, &models.User{Username: "u", Email: "u@example.com", PasswordHash: "h"})
		if err != nil {
			return err
		}
		cid, err := m.Categories(tx).Create(ctx, &models.Category{Name: "c", Color: "#000000", UserID: uid})
		if err != nil {
			return err
		}
		tid, err := m.Topics(tx).Create(ctx, &models.Topic{Title: "t", Description: "d", CardCount: 1, CategoryID: cid, UserID: uid})
		if err != nil {
			return err
		}
		return m.Cards(tx).CreateBatch(ctx, tid, []models.Card{{Question: "q", Answer: "a"}})
	})
	require.NoError(t, err)

	n, err := m.Cards(db).CountByTopic(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NotNil(t, m.SessionCache(db))
	require.NotNil(t, m.Metadata(db))
}
