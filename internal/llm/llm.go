// Package llm suggests topic tags for bank questions using an
// OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Falanzi121/prepdex/internal/model"
)

// MaxTags caps how many topic tags a question can receive.
const MaxTags = 5

// maxPromptRunes bounds how much of a text field is sent per request.
const maxPromptRunes = 4000

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if modelName == "" {
		return nil, fmt.Errorf("LLM model name is required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Ping verifies that the API endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

type tagResponse struct {
	Tags []string `json:"tags"`
}

// SuggestTags asks the LLM for topic tags describing the question. The
// returned tags are lowercased, deduplicated, and capped at MaxTags.
func (c *Client) SuggestTags(ctx context.Context, q model.Question) ([]string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildTagSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: buildTagUserPrompt(q)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	var result tagResponse
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}

	return normalizeTags(result.Tags), nil
}

func buildTagSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are an exam content classifier. You will be shown one multiple-choice question from an exam question bank.\n\n")
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString(fmt.Sprintf("- Assign between 1 and %d short topic tags describing what the question tests.\n", MaxTags))
	sb.WriteString("- Use lowercase single words or short hyphenated phrases.\n")
	sb.WriteString("- Prefer subject-area names over words quoted from the question.\n")
	sb.WriteString("\nRespond ONLY with a JSON object with this field:\n")
	sb.WriteString(`{"tags": ["<tag>", "<tag>"]}`)
	sb.WriteString("\n")
	return sb.String()
}

func buildTagUserPrompt(q model.Question) string {
	var sb strings.Builder
	sb.WriteString("QUESTION: " + sanitizeText(q.Stem) + "\n\n")
	sb.WriteString("OPTIONS:\n")
	for i, opt := range q.Options {
		sb.WriteString(model.OptionLetter(i) + ". " + opt + "\n")
	}
	if q.Explanation != "" {
		sb.WriteString("\nEXPLANATION:\n" + sanitizeText(q.Explanation) + "\n")
	}
	return sb.String()
}

func sanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxPromptRunes {
		runes := []rune(text)
		text = string(runes[:maxPromptRunes]) + "\n\n[truncated]"
	}
	return text
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
