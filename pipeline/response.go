package pipeline

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape returned on every route, success or
// failure.
type Envelope struct {
	Success    bool     `json:"success"`
	Kind       string   `json:"kind,omitempty"`
	Message    string   `json:"message"`
	Data       any      `json:"data,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	RetryAfter int      `json:"retryAfter,omitempty"`
}

// HandlerResult is what a terminal handler produces on success.
type HandlerResult struct {
	Message string
	Data    any
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
