package quizgen

import (
	"strconv"
	"strings"
)

const systemPrompt = `You are a quiz writer creating multiple-choice trivia questions from wiki articles.

Rules:
- Every question must be answerable from the provided source text alone. No outside knowledge.
- Provide exactly 4 options per question, exactly one of which is correct.
- Distractors must be plausible: same category as the answer (a name for a name, a number for a number), never obviously wrong.
- correct_answer_index is the 0-based position (0-3) of the correct option.
- Vary which position holds the correct answer.
- Do not reference "the text", "the article", or "the section" in question wording.
- Keep questions self-contained and unambiguous.`

// DefaultPromptTemplate is the user-message template. Placeholders:
// {topic}, {section}, {count}, {text}.
const DefaultPromptTemplate = `Topic: {topic}
Section: {section}
Generate exactly {count} multiple-choice questions from this source text:

{text}`

// BuildPrompt renders a prompt template for one work unit. An empty
// template falls back to DefaultPromptTemplate.
func BuildPrompt(template, topic, section, text string, count int) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPromptTemplate
	}
	r := strings.NewReplacer(
		"{topic}", topic,
		"{section}", section,
		"{count}", strconv.Itoa(count),
		"{text}", text,
	)
	return r.Replace(template)
}
