package common

import "errors"

var (
	// Store errors.
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrIOFailure           = errors.New("storage i/o failure")

	// External pipeline errors.
	ErrGenerationFailure = errors.New("generation failed")
	ErrUploadFailure     = errors.New("document upload failed")
	ErrExtractionFailure = errors.New("document text extraction failed")

	// Service-level errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// Device session token errors.
	ErrInvalidToken = errors.New("invalid token")
)
