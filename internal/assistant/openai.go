package assistant

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zhubert/nelson/internal/chat"
)

// OpenAIOptions configures OpenAIResponder.
type OpenAIOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// OpenAIResponder calls the OpenAI chat completion API.
type OpenAIResponder struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIResponder builds a responder. An empty model falls back to
// gpt-4o-mini.
func NewOpenAIResponder(opts OpenAIOptions) *OpenAIResponder {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIResponder{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
	}
}

// Respond sends the system prompt plus history and returns the first choice.
func (r *OpenAIResponder) Respond(ctx context.Context, history []chat.Message) (string, error) {
	if r.client == nil {
		return "", errors.New("openai client not initialized")
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    toOpenAIMessages(history),
		Temperature: r.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(history []chat.Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
