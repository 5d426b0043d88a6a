package models

// Category groups topics of one user. Name is unique per user.
type Category struct {
	ID     int64
	Name   string
	Color  string // "#rrggbb"
	UserID int64
}
