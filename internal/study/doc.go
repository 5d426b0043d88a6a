// Package study runs flashcard study sessions: the reveal, advance and
// retreat flow over the ordered cards of a topic, answer scoring, resumable
// progress kept in the session cache, and the completion summary.
package study
