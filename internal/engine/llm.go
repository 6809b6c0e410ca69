package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrLLMDisabled is returned when no LLM client is configured.
var ErrLLMDisabled = errors.New("llm: not configured")

// LLMEnabled reports whether an LLM client is configured.
func LLMEnabled() bool { return cfg.LLMClient != nil }

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends system + prompt with a low temperature suited to copy editing.
func CallLLM(ctx context.Context, system, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrLLMDisabled
	}
	IncrLLMCall()
	resp, err := cfg.LLMClient.Complete(ctx, system, prompt,
		llm.WithChatTemperature(0.2),
	)
	if err != nil {
		IncrLLMError()
		return "", err
	}
	return stripFences(resp), nil
}
