package generation

import (
	"fmt"
	"strings"
)

const replyFormat = `Respond with a single JSON object and nothing else, in this shape:
{
  "title": "short title of the set",
  "description": "one sentence describing the set",
  "flashcards": [
    {"question": "...", "answer": "..."}
  ]
}`

// PromptInstruction asks for count question/answer pairs about the user's
// free-text request.
func PromptInstruction(text string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create exactly %d flashcards for the following request.\n", count)
	b.WriteString("Each flashcard has a concise question and a short, factual answer.\n")
	b.WriteString(replyFormat)
	b.WriteString("\n\nRequest:\n")
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}

// DocumentInstruction asks for count question/answer pairs covering the text
// extracted from a document.
func DocumentInstruction(text string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create exactly %d flashcards from the document below.\n", count)
	b.WriteString("Use only facts stated in the document. Each flashcard has a concise question and a short answer.\n")
	b.WriteString(replyFormat)
	b.WriteString("\n\nDocument:\n")
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}
