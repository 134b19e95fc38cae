package llm

import (
	"errors"
	"strings"
)

// ErrEmptyCompletion is returned when a completion has no usable text.
var ErrEmptyCompletion = errors.New("empty completion")

// ParseCompletion cleans raw model output. Small models often echo the
// prompt, wrap the answer in a code fence or prefix a role label; those are
// stripped. An answer that is empty afterwards is ErrEmptyCompletion.
func ParseCompletion(raw, prompt string) (string, error) {
	text := strings.TrimSpace(raw)
	if prompt != "" {
		text = strings.TrimSpace(strings.TrimPrefix(text, strings.TrimSpace(prompt)))
	}
	text = stripCodeFence(text)
	text = strings.TrimSpace(strings.TrimPrefix(text, "Assistant:"))
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// stripCodeFence removes a single surrounding ``` fence, with or without a
// language tag.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], " \t") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
