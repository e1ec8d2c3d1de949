package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

// Complete implements llm.Completer using chat/completions.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	rid := uuid.New().String()
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	c.log.Info("llm.openai.start",
		"req_id", rid,
		"model", model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(req.Prompt),
		"json", req.WantsJSON(),
		"has_schema", req.Schema != nil,
	)

	body := map[string]any{
		"model":       model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.WantsJSON() {
		body["response_format"] = responseFormat(req.Schema)
	}
	if effort := reasoningEffort(req.ThinkingBudget); effort != "" {
		body["reasoning_effort"] = effort
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.transport.PostJSON(ctx, endpoint, body, map[string]string{"Authorization": "Bearer " + c.cfg.APIKey})
	if err != nil {
		c.log.Error("llm.openai.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.CompletionResponse{}, err
	}

	var cc struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.openai.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.CompletionResponse{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.openai.no_choices", "req_id", rid, "raw", string(raw))
		return llm.CompletionResponse{}, fmt.Errorf("no choices in openai response")
	}

	out := llm.CompletionResponse{
		Text:         strings.TrimSpace(cc.Choices[0].Message.Content),
		Model:        cc.Model,
		FinishReason: cc.Choices[0].FinishReason,
		Usage: llm.Usage{
			PromptTokens: cc.Usage.PromptTokens,
			OutputTokens: cc.Usage.CompletionTokens,
		},
	}
	c.log.Info("llm.openai.ok",
		"req_id", rid,
		"finish_reason", out.FinishReason,
		"output_len", len(out.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func responseFormat(schema map[string]any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "json_object"}
	}
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "response",
			"schema": schema,
			"strict": false,
		},
	}
}

// reasoningEffort buckets a token budget into the effort levels reasoning
// models accept. Zero sends nothing so non-reasoning models keep working.
func reasoningEffort(budget int) string {
	switch {
	case budget <= 0:
		return ""
	case budget < 2048:
		return "low"
	case budget < 8192:
		return "medium"
	default:
		return "high"
	}
}
