// Package models defines the persistent records of the CardIQ store and the
// read models assembled from them.
package models

// User is an account registered on this device.
type User struct {
	ID       int64
	Username string
	Email    string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// LongestStreak only ever grows; see users.Repository.RaiseLongestStreak.
	LongestStreak int
}
