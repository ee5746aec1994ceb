package flowmodel

import (
	"strings"
	"testing"
)

func TestCleanStripsEmphasis(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**Validate the order**", "Validate the order"},
		{"*italic step*", "italic step"},
		{"__strong step__", "strong step"},
		{"plain step", "plain step"},
		{"snake_case stays", "snake_case stays"},
	}
	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanTruncationBoundary(t *testing.T) {
	exact := strings.Repeat("a", 80)
	if got := Clean(exact); got != exact {
		t.Errorf("80-char step was modified: %q", got)
	}

	over := strings.Repeat("a", 81)
	got := Clean(over)
	if len(got) != 80 {
		t.Fatalf("expected 80 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if got[:77] != over[:77] {
		t.Errorf("truncated prefix does not match input")
	}
}
