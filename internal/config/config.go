package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported OCR modes.
const (
	ModeGemini = "gemini"
	ModeGroq   = "groq"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Render   RenderConfig
	Pipeline PipelineConfig
	Upload   UploadConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// ProviderConfig holds settings for a single vision model provider.
type ProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// HasUsableKey reports whether the API key is set and is not a template placeholder.
func (p *ProviderConfig) HasUsableKey() bool {
	key := strings.TrimSpace(p.APIKey)
	return key != "" && !strings.Contains(strings.ToLower(key), "your_")
}

// OCRConfig selects the extraction provider.
type OCRConfig struct {
	Mode   string         `mapstructure:"mode"`
	Gemini ProviderConfig `mapstructure:"gemini"`
	Groq   ProviderConfig `mapstructure:"groq"`
}

// Active returns the provider config for the configured mode, or nil for an unknown mode.
func (o *OCRConfig) Active() *ProviderConfig {
	switch o.Mode {
	case ModeGemini:
		return &o.Gemini
	case ModeGroq:
		return &o.Groq
	default:
		return nil
	}
}

// RenderConfig holds PDF rasterization settings.
type RenderConfig struct {
	Pdftoppm string `mapstructure:"pdftoppm"`
	DPI      int    `mapstructure:"dpi"`
}

// PipelineConfig holds extraction fan-out settings.
type PipelineConfig struct {
	// MaxConcurrentPages caps in-flight provider calls per request; 0 means unbounded.
	MaxConcurrentPages int `mapstructure:"max_concurrent_pages"`
}

// UploadConfig holds request upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a .env file (if present) and environment
// variables with the INVOICEOCR_ prefix. The unprefixed variable names used
// by earlier deployments (OCR_MODE, GEMINI_API_KEY, GROQ_API_KEY, ...) are
// honoured as fallbacks.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config.Load: ignoring .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("INVOICEOCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// OCR defaults
	v.SetDefault("ocr.mode", ModeGemini)
	v.SetDefault("ocr.gemini.api_key", "")
	v.SetDefault("ocr.gemini.default_model", "gemini-2.5-flash")
	v.SetDefault("ocr.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("ocr.gemini.timeout_secs", 120)
	v.SetDefault("ocr.groq.api_key", "")
	v.SetDefault("ocr.groq.default_model", "meta-llama/llama-4-scout-17b-16e-instruct")
	v.SetDefault("ocr.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ocr.groq.timeout_secs", 120)

	// Render defaults
	v.SetDefault("render.pdftoppm", "pdftoppm")
	v.SetDefault("render.dpi", 300)

	// Pipeline defaults
	v.SetDefault("pipeline.max_concurrent_pages", 0)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)
	v.SetDefault("upload.max_files", 50)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")
	v.SetDefault("log.level", "info")

	// Bind environment variables explicitly for nested keys; later names are fallbacks.
	envBindings := map[string][]string{
		"server.port":                   {"INVOICEOCR_SERVER_PORT"},
		"server.read_timeout":           {"INVOICEOCR_SERVER_READ_TIMEOUT"},
		"server.write_timeout":          {"INVOICEOCR_SERVER_WRITE_TIMEOUT"},
		"server.environment":            {"INVOICEOCR_SERVER_ENVIRONMENT"},
		"ocr.mode":                      {"INVOICEOCR_OCR_MODE", "OCR_MODE"},
		"ocr.gemini.api_key":            {"INVOICEOCR_OCR_GEMINI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"},
		"ocr.gemini.default_model":      {"INVOICEOCR_OCR_GEMINI_DEFAULT_MODEL", "GEMINI_MODEL"},
		"ocr.gemini.base_url":           {"INVOICEOCR_OCR_GEMINI_BASE_URL"},
		"ocr.gemini.timeout_secs":       {"INVOICEOCR_OCR_GEMINI_TIMEOUT_SECS"},
		"ocr.groq.api_key":              {"INVOICEOCR_OCR_GROQ_API_KEY", "GROQ_API_KEY"},
		"ocr.groq.default_model":        {"INVOICEOCR_OCR_GROQ_DEFAULT_MODEL", "GROQ_MODEL"},
		"ocr.groq.base_url":             {"INVOICEOCR_OCR_GROQ_BASE_URL"},
		"ocr.groq.timeout_secs":         {"INVOICEOCR_OCR_GROQ_TIMEOUT_SECS"},
		"render.pdftoppm":               {"INVOICEOCR_RENDER_PDFTOPPM"},
		"render.dpi":                    {"INVOICEOCR_RENDER_DPI"},
		"pipeline.max_concurrent_pages": {"INVOICEOCR_PIPELINE_MAX_CONCURRENT_PAGES"},
		"upload.max_file_size_mb":       {"INVOICEOCR_UPLOAD_MAX_FILE_SIZE_MB"},
		"upload.max_files":              {"INVOICEOCR_UPLOAD_MAX_FILES"},
		"cors.allowed_origins":          {"INVOICEOCR_CORS_ALLOWED_ORIGINS"},
		"log.level":                     {"INVOICEOCR_LOG_LEVEL"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if INVOICEOCR_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEOCR_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	cfg.OCR = OCRConfig{
		Mode: strings.ToLower(strings.TrimSpace(v.GetString("ocr.mode"))),
		Gemini: ProviderConfig{
			Provider:     ModeGemini,
			APIKey:       v.GetString("ocr.gemini.api_key"),
			DefaultModel: v.GetString("ocr.gemini.default_model"),
			BaseURL:      v.GetString("ocr.gemini.base_url"),
			TimeoutSecs:  v.GetInt("ocr.gemini.timeout_secs"),
		},
		Groq: ProviderConfig{
			Provider:     ModeGroq,
			APIKey:       v.GetString("ocr.groq.api_key"),
			DefaultModel: v.GetString("ocr.groq.default_model"),
			BaseURL:      v.GetString("ocr.groq.base_url"),
			TimeoutSecs:  v.GetInt("ocr.groq.timeout_secs"),
		},
	}

	cfg.Render = RenderConfig{
		Pdftoppm: v.GetString("render.pdftoppm"),
		DPI:      v.GetInt("render.dpi"),
	}

	cfg.Pipeline = PipelineConfig{
		MaxConcurrentPages: v.GetInt("pipeline.max_concurrent_pages"),
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxFiles:      v.GetInt("upload.max_files"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Log = LogConfig{Level: v.GetString("log.level")}

	return cfg, nil
}
