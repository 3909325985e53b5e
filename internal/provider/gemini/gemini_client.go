package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/port"
	"invoiceocr/internal/provider"
)

const (
	// DisplayName is reported by the health endpoint.
	DisplayName = "Google Gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel   = "gemini-2.5-flash"
)

// Client implements port.Extractor using Google's Gemini generateContent API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New is a provider.Factory for the gemini mode.
func New(cfg *config.ProviderConfig) (port.Extractor, error) {
	if !cfg.HasUsableKey() {
		return nil, errors.New("GEMINI_API_KEY not set or using placeholder")
	}
	return newClient(cfg, ""), nil
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ProviderConfig, endpoint string) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		base := cfg.BaseURL
		if base == "" {
			base = defaultBaseURL
		}
		endpoint = fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(base, "/"), model)
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
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

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": provider.ExtractionPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": page.MIMEType,
							"data":      base64.StdEncoding.EncodeToString(data),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &provider.APIError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return responseText(respBody)
}

// generateResponse models the parts of the Gemini response we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func responseText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("empty response from API: no candidates")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts (finish reason %q)", resp.Candidates[0].FinishReason)
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
