package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joseph-ayodele/contract-analyzer/internal/common"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

// Config for the OpenAI-compatible client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
	RateLimit   float64
	RateBurst   int
	MaxRetries  int
	HTTPClient  *http.Client // optional
}

type Client struct {
	cfg       Config
	transport *llm.Transport
	log       *slog.Logger
}

// NewClient fails fast when no API key is available.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", common.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg: cfg,
		transport: llm.NewTransport(llm.TransportConfig{
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			RateBurst:  cfg.RateBurst,
			MaxRetries: cfg.MaxRetries,
		}, cfg.HTTPClient, logger),
		log: logger,
	}, nil
}
