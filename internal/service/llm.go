package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doofx0071/gym-bro-sub000/config"
)

// ChatMessage is a single message in a chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallOptions tune a single gateway call.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
	// JSONMode asks the provider for a json_object response format.
	JSONMode bool
	// Fallback retries once against the secondary provider when the
	// primary fails. The primary's error is what surfaces if both fail.
	Fallback bool
}

// Usage is the provider-reported token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CallResult is the normalized response from whichever provider answered.
type CallResult struct {
	Content  string
	Provider string
	Model    string
	Usage    *Usage
}

// Provider holds one chat-completions endpoint's settings.
type Provider struct {
	Name   string
	APIURL string
	APIKey string
	Model  string
}

// AIGateway sends prompt messages to the configured LLM providers. It is a
// best-effort single-shot client: no backoff, no caching, at most one
// cross-provider retry.
type AIGateway struct {
	primary  Provider
	fallback *Provider
	client   *http.Client
}

// NewAIGateway builds a gateway from configuration. A missing fallback URL
// leaves the gateway single-provider.
func NewAIGateway(cfg *config.Config) *AIGateway {
	g := &AIGateway{
		primary: Provider{
			Name:   "deepseek",
			APIURL: cfg.AIPrimaryURL,
			APIKey: cfg.AIPrimaryKey,
			Model:  cfg.AIPrimaryModel,
		},
		client: &http.Client{Timeout: 120 * time.Second},
	}
	if cfg.AIFallbackURL != "" {
		g.fallback = &Provider{
			Name:   "openai",
			APIURL: cfg.AIFallbackURL,
			APIKey: cfg.AIFallbackKey,
			Model:  cfg.AIFallbackModel,
		}
	}
	return g
}

// chatRequest is the provider wire format.
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []ChatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// messageContent tolerates providers returning content either as a plain
// string or as a list of typed chunks. Chunk text is concatenated in order,
// so downstream code only ever sees a string.
type messageContent struct {
	Text string
}

func (m *messageContent) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		m.Text = str
		return nil
	}

	var chunks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &chunks); err == nil {
		for _, c := range chunks {
			m.Text += c.Text
		}
		return nil
	}

	return fmt.Errorf("unrecognized content format: %s", string(data))
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content messageContent `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// Call sends the messages to the primary provider, optionally retrying once
// against the fallback. If both fail the primary's error is returned.
func (g *AIGateway) Call(ctx context.Context, messages []ChatMessage, opts CallOptions) (*CallResult, error) {
	result, primaryErr := g.callProvider(ctx, g.primary, messages, opts)
	if primaryErr == nil {
		return result, nil
	}

	if opts.Fallback && g.fallback != nil {
		if result, err := g.callProvider(ctx, *g.fallback, messages, opts); err == nil {
			return result, nil
		}
	}

	return nil, primaryErr
}

func (g *AIGateway) callProvider(ctx context.Context, p Provider, messages []ChatMessage, opts CallOptions) (*CallResult, error) {
	reqBody := chatRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", p.Name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s request failed with status %d: %s", p.Name, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", p.Name, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content.Text == "" {
		return nil, fmt.Errorf("empty response from %s", p.Name)
	}

	model := parsed.Model
	if model == "" {
		model = p.Model
	}

	return &CallResult{
		Content:  parsed.Choices[0].Message.Content.Text,
		Provider: p.Name,
		Model:    model,
		Usage:    parsed.Usage,
	}, nil
}
