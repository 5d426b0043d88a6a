// Package generation turns free text into flashcard decks with an
// OpenAI-compatible chat completion endpoint.
//
// The package only builds instructions, calls the model and parses the
// reply. Persisting the result is left to services.GenerationService.
package generation
