package models

import "time"

// Topic is a generated flashcard set.
type Topic struct {
	ID          int64
	Title       string
	Description string

	// CardCount is written once at generation time and never recomputed.
	CardCount int

	// AddedAt is the creation time in UTC. Zero means "let the store decide".
	AddedAt time.Time

	// ActivityAt is the start of the latest study session, nil if never studied.
	ActivityAt *time.Time

	CategoryID int64
	UserID     int64
}

// TopicSummary is a topic joined with its category, as shown in the
// "recent activity" and "recently added" lists.
type TopicSummary struct {
	Topic
	CategoryName  string
	CategoryColor string
}
