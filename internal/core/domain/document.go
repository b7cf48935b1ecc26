package domain

import "time"

// Document is one corpus entry. Documents are immutable once stored; the
// ingest path appends new ones but never rewrites existing text or tags.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedDocument pairs a document with its retrieval score. Rankings are
// ordered by descending score; equal scores keep the original corpus order.
type RankedDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

type Answer struct {
	Query    string           `json:"query"`
	Response string           `json:"response"`
	Sources  []RankedDocument `json:"sources"`
	Retried  bool             `json:"retried"`
	Accepted bool             `json:"accepted"`

	// Token usage accumulated over every generation the answer required,
	// the corrective retry included.
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
}
