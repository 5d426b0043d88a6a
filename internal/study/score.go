package study

import "strings"

// NoAnswerMessage is shown when the card was revealed without an answer.
const NoAnswerMessage = "You can do it next time! 💪"

var (
	CorrectMessages = []string{
		"Excellent work! You nailed it! 🎉",
		"Perfect! You're on fire! 🔥",
		"Outstanding! Keep it up! ⭐",
		"Brilliant! You got it right! 💡",
		"Amazing! You're doing great! 🚀",
	}
	EncouragingMessages = []string{
		"Close one! You're learning! 📚",
		"Good effort! Keep practicing! 💪",
		"Nice try! You'll get it next time! 🎯",
		"Don't worry, learning takes time! 🌱",
		"Keep going! You're improving! 📈",
	}
)

// Score compares the typed answer with the stored one. A blank answer is
// Unknown. Otherwise the answer is Correct when, ignoring case and
// surrounding whitespace, either text equals or contains the other.
// pick(n) chooses the message index in [0, n).
func Score(userAnswer, storedAnswer string, pick func(n int) int) Feedback {
	user := strings.ToLower(strings.TrimSpace(userAnswer))
	if user == "" {
		return Feedback{Message: NoAnswerMessage, Correct: Unknown, UserAnswer: userAnswer}
	}

	stored := strings.ToLower(strings.TrimSpace(storedAnswer))
	if user == stored || strings.Contains(stored, user) || strings.Contains(user, stored) {
		return Feedback{Message: choose(CorrectMessages, pick), Correct: Correct, UserAnswer: userAnswer}
	}
	return Feedback{Message: choose(EncouragingMessages, pick), Correct: Incorrect, UserAnswer: userAnswer}
}

func choose(pool []string, pick func(n int) int) string {
	i := 0
	if pick != nil {
		i = pick(len(pool))
	}
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}
