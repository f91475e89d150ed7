// Package openai provides an LLM-backed Summarizer using the OpenAI API.
//
// It is a drop-in alternative to the heuristic summarizer for deployments
// that can afford a model call per turn. It honors the same skip-sentinel
// contract: an empty result means the turn is not worth remembering.
// Callers fall back to the plain narrative when the API call fails.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/automem-labs/automem-go/pkg/summarizer"
)

// skipToken is what the model is instructed to reply when a turn should
// not be saved. Mapped to the empty-string sentinel on return.
const skipToken = "SKIP"

const systemPrompt = `You compress chat turns into compact third-person memory records.
Given a user message and an assistant reply, produce one short narrative
sentence capturing what is worth remembering about the user (preferences,
facts, standing instructions, technical context). Reply with exactly the
word SKIP when the turn contains nothing worth remembering (greetings,
thanks, small talk). Never exceed %d characters.`

// Client implements summarizer.Summarizer using the OpenAI chat API.
type Client struct {
	client    *openai.Client
	model     string
	maxLength int
}

// Config is the configuration for the OpenAI summarizer.
// APIKey: OpenAI API key (required)
// Model: Model name to use, defaults to "gpt-4o-mini"
// BaseURL: API base URL, defaults to the OpenAI official address
// MaxResponseLength: Summary length bound, clamped to [300, 2000]
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	MaxResponseLength int
}

// NewClient creates a new OpenAI summarizer client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai summarizer: API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	maxLength := cfg.MaxResponseLength
	if maxLength < 300 {
		maxLength = 300
	}
	if maxLength > 2000 {
		maxLength = 2000
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxLength: maxLength,
	}, nil
}

// Summarize compresses a turn through the model.
//
// Returns the skip sentinel when the model judges the turn not worth
// remembering, and an error when the API call fails so the caller can fall
// back to the narrative form.
func (c *Client) Summarize(ctx context.Context, turn summarizer.Turn, userName string) (string, error) {
	userPrompt := fmt.Sprintf("User (%s): %s\n\nAssistant: %s", userName, turn.UserText, turn.AssistantText)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, c.maxLength)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai summarizer: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai summarizer: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" || strings.EqualFold(content, skipToken) {
		return summarizer.Skip, nil
	}

	// Enforce the length bound regardless of what the model produced.
	runes := []rune(content)
	if len(runes) > c.maxLength {
		content = string(runes[:c.maxLength-3]) + "..."
	}

	return content, nil
}
