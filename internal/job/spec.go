package job

import (
	"fmt"
	"strings"
)

const (
	// DefaultCallBudget bounds provider spend when the caller gives none.
	DefaultCallBudget = 50
)

// Spec is a job submission.
type Spec struct {
	SourceID           string   `json:"sourceId"`
	GroupSelectors     []string `json:"groupSelectors"`
	IndividualLocators []string `json:"individualLocators"`
	CallBudget         int      `json:"callBudget"`
	QuestionDensity    int      `json:"targetQuestionDensity"`
	ModelID            string   `json:"modelId"`
	PromptTemplate     string   `json:"promptTemplate"`
}

// ValidationError reports a rejected job spec.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job spec: %s: %s", e.Field, e.Reason)
}

// Validate checks the spec and fills defaults in place.
func (s *Spec) Validate() error {
	s.SourceID = strings.TrimSpace(s.SourceID)
	if s.SourceID == "" {
		return &ValidationError{Field: "sourceId", Reason: "required"}
	}

	s.GroupSelectors = trimNonEmpty(s.GroupSelectors)
	s.IndividualLocators = trimNonEmpty(s.IndividualLocators)
	if len(s.GroupSelectors) == 0 && len(s.IndividualLocators) == 0 {
		return &ValidationError{
			Field:  "groupSelectors",
			Reason: "at least one group selector or individual locator is required",
		}
	}

	if s.CallBudget < 0 {
		return &ValidationError{Field: "callBudget", Reason: "must not be negative"}
	}
	if s.CallBudget == 0 {
		s.CallBudget = DefaultCallBudget
	}
	if s.QuestionDensity < 0 {
		return &ValidationError{Field: "targetQuestionDensity", Reason: "must not be negative"}
	}
	if strings.TrimSpace(s.ModelID) == "" {
		return &ValidationError{Field: "modelId", Reason: "required"}
	}
	return nil
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
