package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contract-analyzer/internal/common"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config for the Gemini generateContent client.
type Config struct {
	APIKey         string // if empty, falls back to env GEMINI_API_KEY
	BaseURL        string
	Model          string // e.g., "gemini-2.5-flash"
	Temperature    float32
	ThinkingBudget int // default when a request does not set one
	Timeout        time.Duration
	RateLimit      float64
	RateBurst      int
	MaxRetries     int
	HTTPClient     *http.Client
}

type Client struct {
	cfg       Config
	transport *llm.Transport
	log       *slog.Logger
}

// NewClient fails fast when no API key is available.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", common.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
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

type part struct {
	Text    string `json:"text,omitempty"`
	Thought bool   `json:"thought,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

var errEmptyResponse = errors.New("gemini returned no candidates")

// Complete implements llm.Completer using models/{model}:generateContent.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	rid := uuid.New().String()
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	budget := req.ThinkingBudget
	if budget == 0 {
		budget = c.cfg.ThinkingBudget
	}

	c.log.Info("llm.gemini.start",
		"req_id", rid,
		"model", model,
		"prompt_len", len(req.Prompt),
		"json", req.WantsJSON(),
		"has_schema", req.Schema != nil,
		"thinking_budget", budget,
	)

	genCfg := map[string]any{"temperature": c.cfg.Temperature}
	if req.WantsJSON() {
		genCfg["responseMimeType"] = "application/json"
		if req.Schema != nil {
			genCfg["responseSchema"] = toGeminiSchema(req.Schema)
		}
	} else {
		genCfg["responseMimeType"] = "text/plain"
	}
	if budget > 0 {
		genCfg["thinkingConfig"] = map[string]any{"thinkingBudget": budget}
	}

	body := map[string]any{
		"contents":         []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		"generationConfig": genCfg,
	}
	if strings.TrimSpace(req.System) != "" {
		body["systemInstruction"] = content{Parts: []part{{Text: req.System}}}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + url.PathEscape(model) + ":generateContent"
	raw, err := c.transport.PostJSON(ctx, endpoint, body, map[string]string{"x-goog-api-key": c.cfg.APIKey})
	if err != nil {
		c.log.Error("llm.gemini.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.CompletionResponse{}, err
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.log.Error("llm.gemini.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.CompletionResponse{}, fmt.Errorf("decode gemini response: %w", err)
	}
	if gr.PromptFeedback.BlockReason != "" {
		c.log.Warn("llm.gemini.blocked", "req_id", rid, "reason", gr.PromptFeedback.BlockReason)
		return llm.CompletionResponse{}, fmt.Errorf("gemini blocked prompt: %s", gr.PromptFeedback.BlockReason)
	}
	if len(gr.Candidates) == 0 {
		c.log.Error("llm.gemini.no_candidates", "req_id", rid, "raw", string(raw))
		return llm.CompletionResponse{}, errEmptyResponse
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		if p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}

	out := llm.CompletionResponse{
		Text:         strings.TrimSpace(sb.String()),
		Model:        gr.ModelVersion,
		FinishReason: gr.Candidates[0].FinishReason,
		Usage: llm.Usage{
			PromptTokens: gr.UsageMetadata.PromptTokenCount,
			OutputTokens: gr.UsageMetadata.CandidatesTokenCount,
		},
	}
	c.log.Info("llm.gemini.ok",
		"req_id", rid,
		"finish_reason", out.FinishReason,
		"output_len", len(out.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// unsupportedSchemaKeys are JSON Schema keywords the responseSchema subset rejects.
var unsupportedSchemaKeys = map[string]struct{}{
	"additionalProperties": {},
	"$schema":              {},
	"$id":                  {},
	"pattern":              {},
}

// toGeminiSchema rewrites a JSON Schema map into the OpenAPI subset Gemini
// accepts: upper-case type names and no unsupported keywords.
func toGeminiSchema(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, skip := unsupportedSchemaKeys[k]; skip {
				continue
			}
			if k == "type" {
				if s, ok := val.(string); ok {
					out[k] = strings.ToUpper(s)
					continue
				}
			}
			out[k] = toGeminiSchema(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = toGeminiSchema(t[i])
		}
		return out
	default:
		return v
	}
}
