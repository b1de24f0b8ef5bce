package suggest

import (
	"errors"
	"testing"

	"github.com/tasknest/tasknest/internal/domain"
)

func TestParseSuggestions_CleanArray(t *testing.T) {
	titles, err := parseSuggestions(`["Book venue","Send invites"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Book venue" || titles[1] != "Send invites" {
		t.Errorf("unexpected titles %v", titles)
	}
}

func TestParseSuggestions_RecoversFromSurroundingText(t *testing.T) {
	raw := "Sure! Here are your subtasks:\n[\"A\",\"B\"]\nLet me know if you need more."
	titles, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 2 || titles[0] != "A" || titles[1] != "B" {
		t.Errorf("unexpected titles %v", titles)
	}
}

func TestParseSuggestions_CodeFence(t *testing.T) {
	raw := "```json\n[\"First step\", \"Second step\"]\n```"
	titles, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("expected 2 titles, got %v", titles)
	}
}

func TestParseSuggestions_NoArray(t *testing.T) {
	_, err := parseSuggestions("I cannot break this task down.")
	if !errors.Is(err, domain.ErrMalformedSuggestion) {
		t.Fatalf("expected ErrMalformedSuggestion, got %v", err)
	}
}

func TestParseSuggestions_WrongElementType(t *testing.T) {
	_, err := parseSuggestions(`[1, 2, 3]`)
	if !errors.Is(err, domain.ErrMalformedSuggestion) {
		t.Fatalf("expected ErrMalformedSuggestion, got %v", err)
	}
}

func TestParseSuggestions_DropsBlankEntries(t *testing.T) {
	titles, err := parseSuggestions(`["Keep", "   ", "Also keep"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("expected blanks dropped, got %v", titles)
	}
}

func TestParseSuggestions_OnlyBlanks(t *testing.T) {
	_, err := parseSuggestions(`["", "  "]`)
	if !errors.Is(err, domain.ErrMalformedSuggestion) {
		t.Fatalf("expected ErrMalformedSuggestion, got %v", err)
	}
}
