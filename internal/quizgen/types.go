// Package quizgen turns source text into validated multiple-choice
// questions: prompt construction, provider dispatch, and normalization
// of whatever JSON the model actually returned.
package quizgen

import "fmt"

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Question is a generated multiple-choice question after normalization.
// Invariants: exactly 4 non-empty options, CorrectIndex in [0,3],
// non-empty Text.
type Question struct {
	// Text is the question prompt shown to the player.
	Text string

	// Options holds exactly 4 answer options.
	Options []string

	// CorrectIndex is the position of the correct option (0-3).
	CorrectIndex int

	// Repaired is true when the correct-answer index had to be
	// recovered heuristically rather than read from the response.
	// Surfaced in job logs so degraded batches are visible.
	Repaired bool
}

// SchemaViolationError indicates model output that could not be
// normalized into valid questions.
type SchemaViolationError struct {
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("response violates question schema: %s", e.Reason)
}

func schemaViolation(format string, args ...any) *SchemaViolationError {
	return &SchemaViolationError{Reason: fmt.Sprintf(format, args...)}
}
