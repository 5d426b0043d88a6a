// Package topics provides persistence of generated flashcard sets and the
// read models derived from them (recent activity, recently added, creation
// dates for the streak, weekly activity counts).
//
// Timestamps are written as UTC text in dbx.TimeLayout, the format SQLite
// uses for CURRENT_TIMESTAMP, so range filters are plain string comparisons.
//
// Missing rows are reported as (nil, nil) by GetByID. Update and delete of a
// missing row return common.ErrNotFound. Deleting a topic removes its cards
// and its resumable session state through foreign-key cascades.
package topics
