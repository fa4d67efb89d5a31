package quizgen

import (
	"encoding/json"
	"errors"
	"testing"
)

func validPayload() json.RawMessage {
	return json.RawMessage(`{
		"questions": [
			{
				"question": "What is the name of Luffy's ship?",
				"options": ["Going Merry", "Thousand Sunny", "Red Force", "Moby Dick"],
				"correct_answer_index": 1
			}
		]
	}`)
}

func TestNormalize_DirectShape(t *testing.T) {
	qs, err := Normalize(validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].CorrectIndex != 1 {
		t.Fatalf("expected index 1, got %d", qs[0].CorrectIndex)
	}
	if qs[0].Repaired {
		t.Fatal("well-formed question must not be flagged repaired")
	}
}

func TestNormalize_BareArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"question": "Q?", "options": ["a","b","c","d"], "correct_answer_index": 0}
	]`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestNormalize_QuotedString(t *testing.T) {
	// The provider wrapped the JSON payload as a string value.
	quoted, err := json.Marshal(string(validPayload()))
	if err != nil {
		t.Fatal(err)
	}
	qs, err := Normalize(quoted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestNormalize_EmbeddedJSON(t *testing.T) {
	raw := json.RawMessage(`"Sure, here are your questions: {\"questions\":[{\"question\":\"Q?\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correct_answer_index\":3}]} Hope that helps!"`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 3 {
		t.Fatalf("expected index 3, got %d", qs[0].CorrectIndex)
	}
}

func TestNormalize_CodeFences(t *testing.T) {
	fenced := "```json\n" + string(validPayload()) + "\n```"
	quoted, err := json.Marshal(fenced)
	if err != nil {
		t.Fatal(err)
	}
	qs, err := Normalize(quoted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestNormalize_RepairAnswerText(t *testing.T) {
	// The model put the option text where the index belongs.
	raw := json.RawMessage(`{
		"questions": [
			{
				"question": "Who is the captain?",
				"options": ["Zoro", "Nami", "Luffy", "Usopp"],
				"correct_answer_index": "Luffy"
			}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 2 {
		t.Fatalf("expected repaired index 2, got %d", qs[0].CorrectIndex)
	}
	if !qs[0].Repaired {
		t.Fatal("expected question to be flagged repaired")
	}
}

func TestNormalize_RepairThousandsSeparator(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{
				"question": "What is the bounty?",
				"options": ["1,000", "30,000,000", "100,000,000", "1,500,000,000"],
				"correct_answer_index": "1500000000"
			}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 3 {
		t.Fatalf("expected index 3, got %d", qs[0].CorrectIndex)
	}
}

func TestNormalize_RepairNumericString(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "Q?", "options": ["a","b","c","d"], "correct_answer_index": "2"}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 2 {
		t.Fatalf("expected index 2, got %d", qs[0].CorrectIndex)
	}
	if !qs[0].Repaired {
		t.Fatal("mistyped index must be flagged repaired")
	}
}

func TestNormalize_RepairSubstring(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{
				"question": "Where was the fight?",
				"options": ["Marineford Plaza", "Enies Lobby", "Sabaody", "Dressrosa"],
				"correct_answer_index": "Marineford"
			}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 0 {
		t.Fatalf("expected index 0, got %d", qs[0].CorrectIndex)
	}
}

func TestNormalize_RepairDefault(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "Q?", "options": ["a","b","c","d"], "correct_answer_index": "nothing matches"}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 0 {
		t.Fatalf("expected default index 0, got %d", qs[0].CorrectIndex)
	}
	if !qs[0].Repaired {
		t.Fatal("unmatched answer must be flagged repaired")
	}
}

func TestNormalize_RejectsWrongOptionCount(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "Q?", "options": ["a","b","c"], "correct_answer_index": 0}
		]
	}`)
	_, err := Normalize(raw)
	if err == nil {
		t.Fatal("expected error for 3 options")
	}
	var violation *SchemaViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError, got %T (%v)", err, err)
	}
}

func TestNormalize_RejectsEmptyQuestionText(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "   ", "options": ["a","b","c","d"], "correct_answer_index": 0}
		]
	}`)
	if _, err := Normalize(raw); err == nil {
		t.Fatal("expected error for blank question text")
	}
}

func TestNormalize_RejectsEmptyOption(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "Q?", "options": ["a","","c","d"], "correct_answer_index": 0}
		]
	}`)
	if _, err := Normalize(raw); err == nil {
		t.Fatal("expected error for empty option")
	}
}

func TestNormalize_RejectsEmptyList(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{"questions": []}`))
	if err == nil {
		t.Fatal("expected error for empty questions list")
	}
	var violation *SchemaViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError, got %T (%v)", err, err)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := Normalize(json.RawMessage(`"I am sorry, I cannot help with that."`)); err == nil {
		t.Fatal("expected error for non-JSON prose")
	}
}

func TestNormalize_OutOfRangeInteger(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question": "Q?", "options": ["a","b","c","d"], "correct_answer_index": 7}
		]
	}`)
	qs, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 0 || !qs[0].Repaired {
		t.Fatalf("out-of-range index must repair to 0 and be flagged, got %d repaired=%t",
			qs[0].CorrectIndex, qs[0].Repaired)
	}
}

func TestBalancedJSONSlice(t *testing.T) {
	s := `prefix {"a": "with } brace", "b": [1, 2]} suffix`
	sub, ok := balancedJSONSlice(s)
	if !ok {
		t.Fatal("expected a balanced slice")
	}
	if sub != `{"a": "with } brace", "b": [1, 2]}` {
		t.Fatalf("unexpected slice: %s", sub)
	}
}
