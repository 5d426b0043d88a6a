package models

// Card is one question/answer pair. OrderNumber is the 1-based position
// inside its topic.
type Card struct {
	ID          int64
	Question    string
	Answer      string
	OrderNumber int
	TopicID     int64
}
