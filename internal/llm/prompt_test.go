package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildPromptTruncatesLongDocuments(t *testing.T) {
	text := strings.Repeat("x", DefaultMaxPromptChars+500)
	prompt := BuildPrompt(text, 0)

	if !strings.HasPrefix(prompt, "You are an expert insurance policy analyst") {
		t.Fatalf("prompt missing analyst instructions")
	}
	xCount := strings.Count(prompt, "x")
	if xCount != DefaultMaxPromptChars {
		t.Fatalf("expected %d document chars, got %d", DefaultMaxPromptChars, xCount)
	}
}

func TestBuildPromptKeepsShortDocumentsIntact(t *testing.T) {
	text := "Policy Number: ABC-123. Carrier: Travelers."
	prompt := BuildPrompt(text, 0)
	if !strings.HasSuffix(prompt, text) {
		t.Fatalf("expected document text at end of prompt")
	}
	if !strings.Contains(prompt, "Please analyze this insurance policy document") {
		t.Fatalf("expected analyze instruction between rules and text")
	}
}

func TestBuildPromptCustomCap(t *testing.T) {
	text := strings.Repeat("y", 100)
	prompt := BuildPrompt(text, 10)
	if got := strings.Count(prompt, "y"); got != 10 {
		t.Fatalf("expected 10 document chars with custom cap, got %d", got)
	}
}

func TestBuildPromptTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 50)
	prompt := BuildPrompt(text, 25)
	if !utf8.ValidString(prompt) {
		t.Fatal("truncated prompt contains invalid UTF-8")
	}
	if got := strings.Count(prompt, "é"); got != 12 {
		t.Fatalf("expected 12 intact document runes, got %d", got)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	text := "same input"
	if BuildPrompt(text, 0) != BuildPrompt(text, 0) {
		t.Fatal("expected identical prompts for identical input")
	}
}
