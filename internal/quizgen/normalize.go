package quizgen

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// rawQuestion is one question candidate before repair and validation.
// The correct-answer field is kept loose: models put integers, numeric
// strings, or the full option text in it.
type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  any      `json:"correct_answer_index"`
	CorrectAnswer any      `json:"correct_answer"`
}

type questionsEnvelope struct {
	Questions []rawQuestion `json:"questions"`
}

// Normalize converts a raw provider response into validated questions.
// It applies an ordered list of parse strategies, repairs out-of-range
// correct-answer indexes, and hard-fails with *SchemaViolationError when
// the result cannot satisfy the question invariants.
func Normalize(raw json.RawMessage) ([]Question, error) {
	candidates, ok := parseCandidates(raw)
	if !ok {
		return nil, schemaViolation("no parseable questions payload in response")
	}
	if len(candidates) == 0 {
		return nil, schemaViolation("response contained an empty questions list")
	}

	out := make([]Question, 0, len(candidates))
	for i, cand := range candidates {
		q, err := repairQuestion(cand, i)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// parseCandidates tries each parse strategy in order until one yields a
// question list. Strategies are pure and independently testable.
func parseCandidates(raw []byte) ([]rawQuestion, bool) {
	// Strategy 1: the payload already has the target shape.
	if qs, ok := parseShape(raw); ok {
		return qs, true
	}

	// The payload may be a JSON string wrapping the real content.
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		return parseFromText(inner)
	}
	return parseFromText(string(raw))
}

func parseFromText(s string) ([]rawQuestion, bool) {
	// Strategy 2: the whole string is JSON.
	if qs, ok := parseShape([]byte(s)); ok {
		return qs, true
	}

	// Strategy 3: first balanced {...} or [...] substring.
	if sub, ok := balancedJSONSlice(s); ok {
		if qs, ok := parseShape([]byte(sub)); ok {
			return qs, true
		}
	}

	// Strategy 4: strip code fences and retry.
	stripped := stripCodeFences(s)
	if stripped != s {
		if qs, ok := parseShape([]byte(stripped)); ok {
			return qs, true
		}
		if sub, ok := balancedJSONSlice(stripped); ok {
			if qs, ok := parseShape([]byte(sub)); ok {
				return qs, true
			}
		}
	}

	return nil, false
}

// parseShape decodes a {"questions": [...]} envelope or a bare array.
func parseShape(data []byte) ([]rawQuestion, bool) {
	var env questionsEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Questions != nil {
		return env.Questions, true
	}

	var list []rawQuestion
	if err := json.Unmarshal(data, &list); err == nil && list != nil {
		return list, true
	}

	return nil, false
}

// balancedJSONSlice returns the first top-level balanced {...} or [...]
// substring, honoring JSON string literals and escapes.
func balancedJSONSlice(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// stripCodeFences removes leading/trailing markdown code fences.
func stripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```") {
		if nl := strings.IndexByte(out, '\n'); nl >= 0 {
			out = out[nl+1:]
		} else {
			out = strings.TrimPrefix(out, "```json")
			out = strings.TrimPrefix(out, "```")
		}
	}
	if strings.HasSuffix(strings.TrimSpace(out), "```") {
		out = strings.TrimSpace(out)
		out = strings.TrimSuffix(out, "```")
	}
	return strings.TrimSpace(out)
}

// repairQuestion validates one candidate and recovers its correct-answer
// index when the field is missing, mistyped, or out of range.
func repairQuestion(cand rawQuestion, pos int) (Question, error) {
	text := strings.TrimSpace(cand.Question)
	if text == "" {
		return Question{}, schemaViolation("question %d has empty text", pos)
	}

	if len(cand.Options) != OptionCount {
		return Question{}, schemaViolation("question %d has %d options, want %d", pos, len(cand.Options), OptionCount)
	}
	options := make([]string, OptionCount)
	for i, opt := range cand.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return Question{}, schemaViolation("question %d option %d is empty", pos, i)
		}
		options[i] = opt
	}

	stray := cand.CorrectIndex
	if stray == nil {
		stray = cand.CorrectAnswer
	}

	idx, repaired := repairIndex(stray, options)
	return Question{
		Text:         text,
		Options:      options,
		CorrectIndex: idx,
		Repaired:     repaired,
	}, nil
}

// repairIndex resolves the correct-answer field to an option position.
// A well-formed in-range integer is used as-is. Anything else is
// matched against the options: exact string equality first, then
// equality after stripping thousands separators, then substring
// containment in either direction. With no match the index defaults to
// 0 and the question is flagged as repaired.
func repairIndex(stray any, options []string) (idx int, repaired bool) {
	switch v := stray.(type) {
	case float64:
		if v == math.Trunc(v) {
			n := int(v)
			if n >= 0 && n < OptionCount {
				return n, false
			}
		}
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < OptionCount {
			return n, true
		}
		if n, ok := matchOption(s, options); ok {
			return n, true
		}
	}
	return 0, true
}

func matchOption(value string, options []string) (int, bool) {
	for i, opt := range options {
		if value == opt {
			return i, true
		}
	}

	normValue := stripThousands(value)
	for i, opt := range options {
		if strings.EqualFold(normValue, stripThousands(opt)) {
			return i, true
		}
	}

	lowValue := strings.ToLower(value)
	for i, opt := range options {
		lowOpt := strings.ToLower(opt)
		if strings.Contains(lowOpt, lowValue) || strings.Contains(lowValue, lowOpt) {
			return i, true
		}
	}

	return 0, false
}

func stripThousands(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
