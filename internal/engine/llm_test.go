package engine

import (
	"context"
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "hello", "hello"},
		{"fenced", "```\nhello\n```", "hello"},
		{"markdown fence", "```markdown\n## Intro\n```", "## Intro"},
		{"whitespace", "  spaced  ", "spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.raw); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCallLLMDisabled(t *testing.T) {
	Init(Config{})
	if LLMEnabled() {
		t.Fatal("expected LLM disabled with zero config")
	}
	if _, err := CallLLM(context.Background(), "", "x"); !errors.Is(err, ErrLLMDisabled) {
		t.Errorf("CallLLM err = %v, want ErrLLMDisabled", err)
	}
}
