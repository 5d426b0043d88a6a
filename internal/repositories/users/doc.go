// Package users provides persistence of device accounts.
//
// Lookups follow the store-wide convention: a missing row is reported as
// (nil, nil), never as an error. Write failures are classified by
// dbx.Classify, so a duplicate email surfaces as
// common.ErrConstraintViolation and anything else as common.ErrIOFailure.
package users
