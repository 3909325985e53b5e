package groq

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/port"
	"invoiceocr/internal/provider"
)

const (
	// DisplayName is reported by the health endpoint.
	DisplayName = "Groq"

	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// Client implements port.Extractor against Groq's OpenAI-compatible chat
// completions endpoint.
type Client struct {
	client openai.Client
	model  string
}

// New is a provider.Factory for the groq mode.
func New(cfg *config.ProviderConfig) (port.Extractor, error) {
	if !cfg.HasUsableKey() {
		return nil, errors.New("GROQ_API_KEY not set or using placeholder")
	}
	return NewClient(cfg), nil
}

// NewClient creates a Groq client. cfg.BaseURL may point at a test server.
func NewClient(cfg *config.ProviderConfig) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	)
	return &Client{client: client, model: model}
}

// Name implements port.Extractor.
func (c *Client) Name() string {
	return DisplayName
}

// Extract implements port.Extractor.
func (c *Client) Extract(ctx context.Context, page domain.PageImage) (string, error) {
	data, err := os.ReadFile(page.Path)
	if err != nil {
		return "", fmt.Errorf("reading page %d: %w", page.Index, err)
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", page.MIMEType, base64.StdEncoding.EncodeToString(data))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(provider.ExtractionPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURI,
				}),
			}),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &provider.APIError{Provider: "groq", StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", fmt.Errorf("calling groq API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
