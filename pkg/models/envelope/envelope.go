// Package envelope defines the {header, content} wire shape the generative-AI
// backends answer with, and the typed parser for it.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Header carries the HTTP-style status the backend assigns to its own answer.
type Header struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response is the envelope every backend returns. A 200 header implies
// Content is present; any other status may omit it and the header message
// explains why.
type Response[T any] struct {
	Header  Header `json:"header"`
	Content *T     `json:"content"`
}

// ErrEmptyResponse marks raw backend output that is empty or whitespace.
// Retries already happened at the client layer, so this is final for the
// request.
var ErrEmptyResponse = errors.New("empty response from AI service")

// Parse decodes raw backend output into a typed envelope. The caller applies
// the status table to the decoded header; Parse itself only rejects input
// that cannot be decoded at all.
func Parse[T any](raw string) (*Response[T], error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}
	var resp Response[T]
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode AI response envelope: %w", err)
	}
	return &resp, nil
}

// ErrorString synthesizes a degraded status-500 envelope. AI clients return
// it instead of leaking transport faults to the pipeline.
func ErrorString(message string) string {
	raw, _ := json.Marshal(Response[json.RawMessage]{
		Header: Header{Status: 500, Message: message},
	})
	return string(raw)
}

// HeaderError carries a non-200 envelope header through an error return, for
// callers that do not go through the report pipeline.
type HeaderError struct {
	Header Header
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("AI service returned status %d: %s", e.Header.Status, e.Header.Message)
}
