package protocoltypes

import "errors"

// ErrMalformedResponse marks a completion that arrived without transport
// error but carried no usable text (no choices, empty content).
var ErrMalformedResponse = errors.New("malformed completion response")

// CompletionRequest is a single-turn prompt: one system brief and one user
// message.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature *float64
}
