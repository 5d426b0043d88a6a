package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Classify wraps a driver error with the matching sentinel: constraint
// failures (unique, foreign key, not null, check) become
// common.ErrConstraintViolation, everything else common.ErrIOFailure.
// The original error stays in the chain.
//
// Errors that already carry one of the sentinels are only prefixed with op.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrConstraintViolation) || errors.Is(err, common.ErrIOFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if IsConstraint(err) {
		return fmt.Errorf("%s: %w: %w", op, common.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrIOFailure, err)
}

// IsConstraint reports whether err is a SQLite constraint failure.
// Extended result codes keep the primary code in the low byte.
func IsConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
