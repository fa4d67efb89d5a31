package quizgen

import "github.com/abhisek/wikiquiz/internal/llm"

// QuestionsSchema defines the JSON schema for quiz generation responses.
//
// correct_answer_index is deliberately left untyped: models frequently
// answer with the option text instead of its index, and the normalizer's
// repair step recovers those. A strict integer constraint here would
// reject repairable output at the transport layer.
var QuestionsSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of multiple-choice quiz questions about the given source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "The generated questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, answerable from the source text alone",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    OptionCount,
							"maxItems":    OptionCount,
							"description": "Exactly 4 answer options, exactly one correct",
						},
						"correct_answer_index": map[string]any{
							"description": "The 0-based index (0-3) of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct_answer_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
