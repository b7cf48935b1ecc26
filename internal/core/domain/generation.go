package domain

import "strings"

type GenerationRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type GenerationResult struct {
	Text             string `json:"text"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}

// AcceptFunc decides whether a generated answer is good enough to return
// without the corrective retry.
type AcceptFunc func(text string) bool

// MarkerAccept accepts answers that contain marker, case-insensitive.
// An empty marker accepts everything.
func MarkerAccept(marker string) AcceptFunc {
	marker = strings.ToLower(strings.TrimSpace(marker))
	return func(text string) bool {
		if marker == "" {
			return true
		}
		return strings.Contains(strings.ToLower(text), marker)
	}
}
