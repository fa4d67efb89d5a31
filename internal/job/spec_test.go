package job

import (
	"errors"
	"testing"
)

func validSpec() Spec {
	return Spec{
		SourceID:           "One Piece",
		IndividualLocators: []string{"Monkey D. Luffy"},
		ModelID:            "gpt-4o-mini",
	}
}

func TestSpecValidate_FillsDefaults(t *testing.T) {
	s := validSpec()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CallBudget != DefaultCallBudget {
		t.Fatalf("expected default budget %d, got %d", DefaultCallBudget, s.CallBudget)
	}
}

func TestSpecValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
		field  string
	}{
		{"missing source", func(s *Spec) { s.SourceID = "  " }, "sourceId"},
		{"no selectors", func(s *Spec) { s.IndividualLocators = nil }, "groupSelectors"},
		{"blank selectors only", func(s *Spec) { s.IndividualLocators = []string{"  ", ""} }, "groupSelectors"},
		{"negative budget", func(s *Spec) { s.CallBudget = -1 }, "callBudget"},
		{"negative density", func(s *Spec) { s.QuestionDensity = -5 }, "targetQuestionDensity"},
		{"missing model", func(s *Spec) { s.ModelID = "" }, "modelId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSpec()
			tc.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestSpecValidate_TrimsSelectors(t *testing.T) {
	s := validSpec()
	s.GroupSelectors = []string{" Characters ", ""}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.GroupSelectors) != 1 || s.GroupSelectors[0] != "Characters" {
		t.Fatalf("unexpected selectors: %v", s.GroupSelectors)
	}
}
