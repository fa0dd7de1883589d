package domain

import (
	"fmt"
	"strings"
)

// Model selects which generative-AI backend serves a request.
type Model string

const (
	ModelGemini   Model = "gemini"
	ModelDeepseek Model = "deepseek"
)

// ParseModel resolves a model name from a query parameter. An empty name
// falls back to Gemini.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModelGemini):
		return ModelGemini, nil
	case string(ModelDeepseek):
		return ModelDeepseek, nil
	}
	return "", fmt.Errorf("unsupported AI model: %q", s)
}

func (m Model) String() string {
	return string(m)
}
