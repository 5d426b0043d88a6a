// Package auth defines the explicit login session passed to services and the
// signed token that lets a login survive restarts of the CLI.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
)

// Session identifies the logged-in user. It is created by login or signup,
// handed to every service call that acts on behalf of the user, and dropped
// at logout.
type Session struct {
	UserID   int64
	Username string
	Email    string
	IssuedAt time.Time
}

// Require returns common.ErrUnauthorized for a nil session.
func Require(s *Session) error {
	if s == nil || s.UserID == 0 {
		return fmt.Errorf("no active session: %w", common.ErrUnauthorized)
	}
	return nil
}
