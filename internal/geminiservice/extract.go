package geminiservice

import "strings"

const (
	jsonFence = "```json"
	fence     = "```"
	jsonLabel = "json"
)

// ExtractJSON strips the Markdown code fence and a leading "json" label that
// Gemini tends to wrap around its reply. The result is not validated.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, jsonFence) {
		text = strings.TrimSpace(text[len(jsonFence):])
	}
	if strings.HasPrefix(text, fence) {
		text = strings.TrimSpace(text[len(fence):])
	}
	if strings.HasSuffix(text, fence) {
		text = strings.TrimSpace(text[:len(text)-len(fence)])
	}

	// Bare label, any case.
	if len(text) >= len(jsonLabel) && strings.EqualFold(text[:len(jsonLabel)], jsonLabel) {
		text = strings.TrimSpace(text[len(jsonLabel):])
	}

	return text
}
