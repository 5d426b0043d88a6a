// Package repomanager hands out repositories bound to a given DBTX, so a
// service can run several of them inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardiq/internal/dbx"
	"github.com/dmitrijs2005/cardiq/internal/repositories/cards"
	"github.com/dmitrijs2005/cardiq/internal/repositories/categories"
	"github.com/dmitrijs2005/cardiq/internal/repositories/metadata"
	"github.com/dmitrijs2005/cardiq/internal/repositories/sessioncache"
	"github.com/dmitrijs2005/cardiq/internal/repositories/topics"
	"github.com/dmitrijs2005/cardiq/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Topics(db dbx.DBTX) topics.Repository
	Cards(db dbx.DBTX) cards.Repository
	SessionCache(db dbx.DBTX) sessioncache.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}
