package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/rs/zerolog"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiClient talks to the Gemini generateContent API. The output schema is
// forwarded as a responseSchema so the model answers with conforming JSON.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	modelName  string
	policy     RetryPolicy
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewGeminiClient(cfg GeminiConfig, policy RetryPolicy) *GeminiClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		modelName:  modelName,
		policy:     policy,
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) GenerateReport(ctx context.Context, prompt, outputSchema string, model domain.Model) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return envelope.ErrorString("prompt cannot be empty"), nil
	}
	if model != domain.ModelGemini {
		return envelope.ErrorString(fmt.Sprintf("model %q is not served by the Gemini client", model)), nil
	}

	text, err := c.policy.Do(ctx, func(ctx context.Context) (string, error) {
		return c.generateOnce(ctx, prompt, outputSchema)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("gemini report generation failed")
		return envelope.ErrorString(fmt.Sprintf("error generating report: %v", err)), nil
	}
	return text, nil
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt, outputSchema string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if strings.TrimSpace(outputSchema) != "" {
		body.GenerationConfig = &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   json.RawMessage(outputSchema),
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.modelName, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &RemoteError{
			StatusCode: resp.StatusCode,
			Quota: resp.StatusCode == http.StatusTooManyRequests &&
				bytes.Contains(bytes.ToLower(raw), []byte("quota")),
			Err: fmt.Errorf("gemini API: %s", resp.Status),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates returned from Gemini")
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty text returned from Gemini")
	}
	return text, nil
}
