package llm

import (
	"fmt"
	"strings"
)

const elaborationSystem = "You are a helpful AI assistant. Give concise, accurate answers."

// ElaborationPrompt builds the single-string prompt used to elaborate on a
// user's input.
func ElaborationPrompt(input string) string {
	return fmt.Sprintf("%s\n\nUser: %s\nAssistant:", elaborationSystem, strings.TrimSpace(input))
}
