package sessioncache

import (
	"fmt"
	"slices"
)

// Field names one piece of resumable study state.
type Field string

const (
	FieldRevealedCards  Field = "revealedCards"
	FieldFeedbackData   Field = "feedbackData"
	FieldCurrentIndex   Field = "currentIndex"
	FieldCompletedCards Field = "completedCards"
)

// Fields lists every field kept per topic.
var Fields = []Field{FieldRevealedCards, FieldFeedbackData, FieldCurrentIndex, FieldCompletedCards}

// Valid reports whether f is one of Fields.
func (f Field) Valid() bool {
	return slices.Contains(Fields, f)
}

// Key addresses one cached value.
type Key struct {
	TopicID int64
	Field   Field
}

// String renders the key as "topic:<id>:<field>".
func (k Key) String() string {
	return fmt.Sprintf("topic:%d:%s", k.TopicID, k.Field)
}
