package study

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/repositories/sessioncache"
	"github.com/samber/lo"
)

// Correctness is the tri-state result of scoring an answer.
type Correctness int8

const (
	Unknown Correctness = iota
	Correct
	Incorrect
)

func (c Correctness) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Unknown as null, Correct as true and Incorrect as false.
func (c Correctness) MarshalJSON() ([]byte, error) {
	switch c {
	case Correct:
		return []byte("true"), nil
	case Incorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (c *Correctness) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*c = Correct
	case "false":
		*c = Incorrect
	case "null":
		*c = Unknown
	default:
		return fmt.Errorf("invalid correctness %s", b)
	}
	return nil
}

// Feedback is recorded once per card, on its first reveal.
type Feedback struct {
	Message    string      `json:"message"`
	Correct    Correctness `json:"isCorrect"`
	UserAnswer string      `json:"userAnswer"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Progress is the resumable state of a study session. Card positions are
// 0-based indices into the ordered cards of the topic.
type Progress struct {
	Revealed     map[int]struct{}
	Completed    map[int]struct{}
	Feedback     map[int]Feedback
	CurrentIndex int
}

func newProgress() *Progress {
	return &Progress{
		Revealed:  map[int]struct{}{},
		Completed: map[int]struct{}{},
		Feedback:  map[int]Feedback{},
	}
}

func (p *Progress) IsRevealed(i int) bool {
	_, ok := p.Revealed[i]
	return ok
}

// Encode serializes every field of the session cache. Sets become sorted
// JSON arrays.
func (p *Progress) Encode() (map[sessioncache.Field][]byte, error) {
	revealed, err := json.Marshal(sortedSet(p.Revealed))
	if err != nil {
		return nil, err
	}
	completed, err := json.Marshal(sortedSet(p.Completed))
	if err != nil {
		return nil, err
	}
	feedback, err := json.Marshal(p.Feedback)
	if err != nil {
		return nil, err
	}

	return map[sessioncache.Field][]byte{
		sessioncache.FieldRevealedCards:  revealed,
		sessioncache.FieldCompletedCards: completed,
		sessioncache.FieldFeedbackData:   feedback,
		sessioncache.FieldCurrentIndex:   []byte(strconv.Itoa(p.CurrentIndex)),
	}, nil
}

// DecodeProgress restores progress from cached fields. Missing fields keep
// their zero state; an empty map yields fresh progress.
func DecodeProgress(fields map[sessioncache.Field][]byte) (*Progress, error) {
	p := newProgress()

	if b, ok := fields[sessioncache.FieldRevealedCards]; ok {
		set, err := decodeSet(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sessioncache.FieldRevealedCards, err)
		}
		p.Revealed = set
	}
	if b, ok := fields[sessioncache.FieldCompletedCards]; ok {
		set, err := decodeSet(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sessioncache.FieldCompletedCards, err)
		}
		p.Completed = set
	}
	if b, ok := fields[sessioncache.FieldFeedbackData]; ok {
		if err := json.Unmarshal(b, &p.Feedback); err != nil {
			return nil, fmt.Errorf("%s: %w", sessioncache.FieldFeedbackData, err)
		}
		if p.Feedback == nil {
			p.Feedback = map[int]Feedback{}
		}
	}
	if b, ok := fields[sessioncache.FieldCurrentIndex]; ok {
		i, err := strconv.Atoi(string(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sessioncache.FieldCurrentIndex, err)
		}
		p.CurrentIndex = i
	}
	return p, nil
}

func sortedSet(s map[int]struct{}) []int {
	out := lo.Keys(s)
	slices.Sort(out)
	return out
}

func decodeSet(b []byte) (map[int]struct{}, error) {
	var list []int
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return lo.SliceToMap(list, func(i int) (int, struct{}) { return i, struct{}{} }), nil
}
