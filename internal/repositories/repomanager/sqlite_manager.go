package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/migrations"
	"github.com/dmitrijs2005/cardiq/internal/repositories/cards"
	"github.com/dmitrijs2005/cardiq/internal/repositories/categories"
	"github.com/dmitrijs2005/cardiq/internal/repositories/metadata"
	"github.com/dmitrijs2005/cardiq/internal/repositories/sessioncache"
	"github.com/dmitrijs2005/cardiq/internal/repositories/topics"
	"github.com/dmitrijs2005/cardiq/internal/repositories/users"
)

type SQLiteRepositoryManager struct {
}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Topics(db dbx.DBTX) topics.Repository {
	return topics.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) SessionCache(db dbx.DBTX) sessioncache.Repository {
	return sessioncache.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}
