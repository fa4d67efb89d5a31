package content

import "math"

const (
	// DefaultQuestionDensity is the word count that yields one question.
	DefaultQuestionDensity = 150

	// MinQuestionsPerUnit and MaxQuestionsPerUnit clamp the per-unit
	// target so tiny stubs still yield a question and huge sections
	// don't blow the response budget.
	MinQuestionsPerUnit = 1
	MaxQuestionsPerUnit = 20
)

// BuildUnits turns a fetched page's sections into work units, one unit
// per section. Sections with no text are kept so the orchestrator can
// log them as skipped; they carry a zero target.
func BuildUnits(sourceID, groupLabel, locator string, sections []Section, density int) []WorkUnit {
	if density <= 0 {
		density = DefaultQuestionDensity
	}

	units := make([]WorkUnit, 0, len(sections))
	for _, sec := range sections {
		units = append(units, WorkUnit{
			SourceID:            sourceID,
			GroupLabel:          groupLabel,
			Locator:             locator,
			SubUnitLabel:        sec.Title,
			Text:                sec.Text,
			WordCount:           sec.WordCount,
			TargetQuestionCount: targetQuestions(sec.WordCount, density),
		})
	}
	return units
}

// targetQuestions derives how many questions to request for a section.
func targetQuestions(wordCount, density int) int {
	if wordCount <= 0 {
		return 0
	}
	n := int(math.Round(float64(wordCount) / float64(density)))
	if n < MinQuestionsPerUnit {
		return MinQuestionsPerUnit
	}
	if n > MaxQuestionsPerUnit {
		return MaxQuestionsPerUnit
	}
	return n
}
