package cli

import (
	"errors"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/study"
)

var errBadCredentials = errors.New("invalid email or password")

// describe turns an error into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errBadCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrInvalidToken):
		return "Your session has expired. Please log in again with `cardiq login`."
	case errors.Is(err, common.ErrUnauthorized):
		return "You are not logged in. Run `cardiq login` or `cardiq signup` first."
	case errors.Is(err, common.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, common.ErrConstraintViolation):
		return "That name or email is already taken."
	case errors.Is(err, common.ErrNotFound):
		return "Nothing found with that ID."
	case errors.Is(err, common.ErrUploadFailure):
		return "Failed to upload the PDF file. Please try again."
	case errors.Is(err, common.ErrExtractionFailure):
		return "Failed to generate flashcards from the PDF. Please make sure it contains readable text and try again."
	case errors.Is(err, common.ErrGenerationFailure):
		return "Failed to generate flashcards. Please try again."
	case errors.Is(err, common.ErrIOFailure):
		return "Could not access the local database."
	case errors.Is(err, study.ErrSessionOver):
		return "This study session is over."
	}
	return err.Error()
}
