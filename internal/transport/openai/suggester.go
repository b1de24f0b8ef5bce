package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/metrics"
)

const (
	suggestionTemperature = 0.7
	suggestionMaxTokens   = 300
)

// Suggester produces chat completions for subtask generation. It returns the
// raw assistant content; parsing the model output into subtask titles is the
// usecase layer's job.
type Suggester struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSuggester creates a chat completion provider.
func NewSuggester(cfg *Config) *Suggester {
	return &Suggester{
		client: newClient(cfg),
		model:  cfg.ChatModel,
		logger: cfg.Logger,
	}
}

// Complete sends a system prompt plus user prompt and returns the assistant's reply.
func (s *Suggester) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: suggestionTemperature,
		MaxTokens:   suggestionMaxTokens,
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SuggestionRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return "", parseAPIError("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		metrics.SuggestionRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrProviderUnavailable)
	}

	metrics.SuggestionRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.SuggestionRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}
