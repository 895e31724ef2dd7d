package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer issues a chat completion against an ordered list of models,
// returning the first successful response. Implementations advance to the
// next model only when the current one fails at the request level; a model
// that answers, even badly, ends the chain.
type Completer interface {
	Complete(ctx context.Context, models []string, messages []llms.MessageContent, opts ...llms.CallOption) (string, error)
}

// Client wraps an OpenAI-compatible chat endpoint. Groq exposes one, so a
// single client serves the vision, extraction, and chat model families with
// the model chosen per call.
type Client struct {
	model  llms.Model
	logger zerolog.Logger
}

// New builds a Client against the given OpenAI-compatible base URL.
func New(baseURL, apiKey string, logger zerolog.Logger) (*Client, error) {
	model, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return &Client{model: model, logger: logger}, nil
}

// Complete tries each model in order until one returns a response. The last
// error is returned when every model fails. Only request failures advance
// the chain: a model that answers with an empty choice list ends it with an
// error, the same as a model answering badly ends it with bad content.
func (c *Client) Complete(ctx context.Context, models []string, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models configured")
	}

	var lastErr error
	for _, m := range models {
		callOpts := append([]llms.CallOption{llms.WithModel(m)}, opts...)
		completion, err := c.model.GenerateContent(ctx, messages, callOpts...)
		if err != nil {
			c.logger.Warn().Err(err).Str("model", m).Msg("model call failed, trying next")
			lastErr = err
			continue
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("model %s returned no choices", m)
		}
		return completion.Choices[0].Content, nil
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

// VisionMessage builds a single-turn user message carrying a JPEG image and
// an instruction, encoded as a data URL the way OpenAI-compatible vision
// endpoints expect.
func VisionMessage(prompt string, jpeg []byte) []llms.MessageContent {
	encoded := base64.StdEncoding.EncodeToString(jpeg)
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.ImageURLPart("data:image/jpeg;base64," + encoded),
			},
		},
	}
}
