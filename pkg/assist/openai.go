package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopeat/go-shopeat/internal/httpc"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-3.5-turbo"
	maxTokens     = 150

	systemPrompt = "You are a helpful shopping assistant. Keep responses natural, " +
		"brief, and focused on shopping. When users mention items, acknowledge " +
		"that you're adding them and ask what else they need."
)

// ErrMissingAPIKey is returned when no OpenAI API key is configured.
var ErrMissingAPIKey = errors.New("assist/openai: missing API key")

// OpenAI interprets transcripts with the chat completions API.
type OpenAI struct {
	apiKey string
	model  string
	http   *http.Client
}

// NewOpenAI creates an OpenAI interpreter.
func NewOpenAI(apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &OpenAI{
		apiKey: apiKey,
		model:  openAIModel,
		http:   httpc.Client,
	}, nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Reply asks the model for shopping guidance on the transcript.
func (o *OpenAI) Reply(ctx context.Context, transcript string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: transcript},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("assist/openai: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assist/openai: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assist/openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("assist/openai: failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("assist/openai: failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("assist/openai: API error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assist/openai: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("assist/openai: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ Assistant = (*OpenAI)(nil)
