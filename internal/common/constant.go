// Package common contains shared constants, sentinel errors and small helpers
// used across CardIQ components. Callers should use errors.Is to match the
// sentinel values.
package common

const (
	// DefaultRecentActivityLimit is the row cap of the "recent activity" list.
	DefaultRecentActivityLimit = 5
	// DefaultRecentlyAddedLimit is the row cap of the "recently added" list.
	DefaultRecentlyAddedLimit = 10

	// Metadata keys of the device-local key/value table.
	MetaDeviceSecret = "device_secret"
	MetaSessionToken = "session_token"
)
