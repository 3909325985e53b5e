package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/provider"
	"invoiceocr/internal/provider/gemini"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.ProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.5-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func writePage(t *testing.T) domain.PageImage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page_0.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o600))
	return domain.PageImage{Index: 0, Path: path, MIMEType: "image/jpeg"}
}

func successResponse(texts ...string) map[string]interface{} {
	parts := make([]map[string]interface{}, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, map[string]interface{}{"text": t})
	}
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content":      map[string]interface{}{"role": "model", "parts": parts},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiClient_Extract_Success(t *testing.T) {
	reply := "```json\n{\"invoice_number\":\"INV-001\"}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)

		assert.Equal(t, provider.ExtractionPrompt, parts[0].(map[string]interface{})["text"])
		inline := parts[1].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", inline["mime_type"])
		assert.Equal(t, "/9j/4A==", inline["data"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, float64(0), genConfig["temperature"])

		_ = json.NewEncoder(w).Encode(successResponse(reply))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Extract(context.Background(), writePage(t))

	require.NoError(t, err)
	assert.Equal(t, reply, text)
}

func TestGeminiClient_Extract_JoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse(`{"currency":`, `"USD"}`))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Extract(context.Background(), writePage(t))

	require.NoError(t, err)
	assert.Equal(t, `{"currency":"USD"}`, text)
}

func TestGeminiClient_Extract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Extract(context.Background(), writePage(t))

	require.Error(t, err)
	var apiErr *provider.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "gemini", apiErr.Provider)
}

func TestGeminiClient_Extract_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Extract(context.Background(), writePage(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiClient_Extract_MissingPage(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")
	_, err := c.Extract(context.Background(), domain.PageImage{Index: 3, Path: filepath.Join(t.TempDir(), "gone.jpg")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading page 3")
}

func TestGeminiNew_RejectsPlaceholderKey(t *testing.T) {
	_, err := gemini.New(&config.ProviderConfig{APIKey: "your_api_key_here"})
	assert.Error(t, err)

	ex, err := gemini.New(&config.ProviderConfig{APIKey: "real"})
	require.NoError(t, err)
	assert.Equal(t, gemini.DisplayName, ex.Name())
}
