package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// ErrNoAPIKey is returned by NewAnthropic when no key is configured
var ErrNoAPIKey = errors.New("anthropic api key not set")

// Generator is the external text model: prompt in, free-form text out
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Anthropic generates text via the Anthropic Messages API
type Anthropic struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// AnthropicOption customizes an Anthropic client
type AnthropicOption func(*Anthropic)

// WithEndpoint overrides the messages endpoint
func WithEndpoint(url string) AnthropicOption {
	return func(a *Anthropic) { a.endpoint = url }
}

// WithHTTPClient overrides the http client
func WithHTTPClient(c *http.Client) AnthropicOption {
	return func(a *Anthropic) { a.client = c }
}

// NewAnthropic creates a Generator for the given key and model
func NewAnthropic(apiKey, model string, opts ...AnthropicOption) (*Anthropic, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	a := &Anthropic{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicAPI,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user message and returns the first text block
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 1024,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	for _, block := range apiResp.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("empty response")
}
