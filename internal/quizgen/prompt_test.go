package quizgen

import (
	"strings"
	"testing"
)

func TestBuildPrompt_Default(t *testing.T) {
	p := BuildPrompt("", "One Piece", "Overview", "Luffy is the captain.", 3)
	if !strings.Contains(p, "Topic: One Piece") {
		t.Fatalf("missing topic: %s", p)
	}
	if !strings.Contains(p, "Section: Overview") {
		t.Fatalf("missing section: %s", p)
	}
	if !strings.Contains(p, "exactly 3 multiple-choice questions") {
		t.Fatalf("missing count: %s", p)
	}
	if !strings.Contains(p, "Luffy is the captain.") {
		t.Fatalf("missing source text: %s", p)
	}
}

func TestBuildPrompt_CustomTemplate(t *testing.T) {
	p := BuildPrompt("Write {count} questions about {topic}: {text}", "Naruto", "ignored", "body", 5)
	if p != "Write 5 questions about Naruto: body" {
		t.Fatalf("unexpected prompt: %s", p)
	}
}

func TestBuildPrompt_BlankTemplateFallsBack(t *testing.T) {
	a := BuildPrompt("   ", "T", "S", "x", 1)
	b := BuildPrompt("", "T", "S", "x", 1)
	if a != b {
		t.Fatal("blank template must fall back to the default")
	}
}
