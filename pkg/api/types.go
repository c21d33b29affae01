package api

import "github.com/matzehuels/hanzitree/pkg/hanzi"

// Message is the body of informational responses.
type Message struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// SearchResult is a dictionary hit annotated with whether the word is
// already known. ID is set for known words.
type SearchResult struct {
	hanzi.Word
	Known bool   `json:"known"`
	ID    *int64 `json:"id,omitempty"`
}

// HealthMessage is returned by GET /.
const HealthMessage = "Chinese Learning API is running!"
