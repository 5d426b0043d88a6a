package services

import (
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/cryptox"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	cryptox.PasswordCost = bcrypt.MinCost
}

// ---- helpers ----

type env struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func newEnv(t *testing.T) env {
	t.Helper()
	return env{db: storagetest.NewDB(t), repos: repomanager.NewSQLiteRepositoryManager()}
}

// seedSession inserts a user and returns a session for it.
func (e env) seedSession(t *testing.T, email string) *auth.Session {
	t.Helper()
	id := storagetest.SeedUser(t, e.db, email)
	return &auth.Session{UserID: id, Username: "Test User", Email: email}
}
