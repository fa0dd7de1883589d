package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultDeepseekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepseekModel   = "deepseek-chat"

	deepseekSystemPrompt = "You are an AI assistant that produces financial reports from the data provided."
)

// DeepseekClient talks to the Deepseek chat-completions API, which is
// OpenAI-compatible. Deepseek has no native response-schema support, so the
// output schema is appended to the prompt instead.
type DeepseekClient struct {
	client    *openai.Client
	modelName string
	policy    RetryPolicy
}

type DeepseekConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewDeepseekClient(cfg DeepseekConfig, policy RetryPolicy) *DeepseekClient {
	conf := openai.DefaultConfig(cfg.APIKey)
	conf.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if conf.BaseURL == "" {
		conf.BaseURL = defaultDeepseekBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultDeepseekModel
	}
	return &DeepseekClient{
		client:    openai.NewClientWithConfig(conf),
		modelName: modelName,
		policy:    policy,
	}
}

func (c *DeepseekClient) GenerateReport(ctx context.Context, prompt, outputSchema string, model domain.Model) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return envelope.ErrorString("prompt cannot be empty"), nil
	}
	if model != domain.ModelDeepseek {
		return envelope.ErrorString(fmt.Sprintf("model %q is not served by the Deepseek client", model)), nil
	}

	if strings.TrimSpace(outputSchema) != "" {
		prompt = fmt.Sprintf("%s\n\nAnswer with a JSON report matching exactly this schema:\n%s\n", prompt, outputSchema)
	}

	text, err := c.policy.Do(ctx, func(ctx context.Context) (string, error) {
		return c.completeOnce(ctx, prompt)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("deepseek report generation failed")
		return envelope.ErrorString(fmt.Sprintf("error generating report: %v", err)), nil
	}
	return text, nil
}

func (c *DeepseekClient) completeOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: deepseekSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from Deepseek")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{
			StatusCode: apiErr.HTTPStatusCode,
			Quota: apiErr.HTTPStatusCode == http.StatusTooManyRequests &&
				strings.Contains(strings.ToLower(apiErr.Message), "quota"),
			Err: err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &RemoteError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
