package llm

import "strings"

// StripCodeFence removes one leading ```json or ``` marker and one trailing
// ``` marker by literal prefix/suffix matching, then trims whitespace.
// Fences in the middle of the text are left alone.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "```json"):
		text = text[len("```json"):]
	case strings.HasPrefix(text, "```"):
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text)
}
