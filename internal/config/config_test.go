package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceocr/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeGemini, cfg.OCR.Mode)
	assert.Equal(t, "gemini-2.5-flash", cfg.OCR.Gemini.DefaultModel)
	assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", cfg.OCR.Groq.DefaultModel)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.OCR.Groq.BaseURL)
	assert.Equal(t, 300, cfg.Render.DPI)
	assert.Equal(t, 0, cfg.Pipeline.MaxConcurrentPages)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("OCR_MODE", "GROQ")
	t.Setenv("GROQ_API_KEY", "gsk-legacy")
	t.Setenv("GROQ_MODEL", "llama-vision")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeGroq, cfg.OCR.Mode)
	assert.Equal(t, "gsk-legacy", cfg.OCR.Groq.APIKey)
	assert.Equal(t, "llama-vision", cfg.OCR.Groq.DefaultModel)
	assert.Equal(t, &cfg.OCR.Groq, cfg.OCR.Active())
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("INVOICEOCR_OCR_GEMINI_API_KEY", "prefixed")
	t.Setenv("GEMINI_API_KEY", "legacy")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prefixed", cfg.OCR.Gemini.APIKey)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestOCRConfig_Active_UnknownMode(t *testing.T) {
	cfg := config.OCRConfig{Mode: "tesseract"}
	assert.Nil(t, cfg.Active())
}

func TestProviderConfig_HasUsableKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"your_gemini_api_key_here", false},
		{"YOUR_KEY", false},
		{"AIza-real-key", true},
	}
	for _, tt := range tests {
		p := config.ProviderConfig{APIKey: tt.key}
		assert.Equal(t, tt.want, p.HasUsableKey(), "key %q", tt.key)
	}
}
