// Package services contains the application services of CardIQ: accounts and
// the device session, categories, topics, profile statistics and flashcard
// generation.
//
// Services take an explicit *auth.Session for every call made on behalf of a
// user and check ownership of the rows they touch; a row owned by someone
// else is reported as common.ErrNotFound.
package services
