package llm

import "context"

type ResponseFormat string

const (
	FormatJSON ResponseFormat = "json"
	FormatText ResponseFormat = "text"
)

// CompletionRequest is provider-neutral; each backend maps it onto its own wire shape.
type CompletionRequest struct {
	Model          string         // empty means the backend default
	System         string         // system instruction
	Prompt         string         // user turn
	Format         ResponseFormat // empty means FormatJSON
	Schema         map[string]any // optional JSON Schema for the response
	ThinkingBudget int            // extended deliberation hint; 0 leaves it to the backend
}

type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type CompletionResponse struct {
	Text         string
	Model        string
	FinishReason string
	Usage        Usage
}

// Completer is the only thing the orchestrator needs from an AI backend.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

func (r CompletionRequest) WantsJSON() bool {
	return r.Format == "" || r.Format == FormatJSON
}
