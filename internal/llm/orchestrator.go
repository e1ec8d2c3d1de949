package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

// Orchestrator builds prompts, calls a Completer and parses what comes back.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	completer      Completer
	model          string
	thinkingBudget int
	logger         *slog.Logger
}

type Option func(*Orchestrator)

func WithModel(model string) Option { return func(o *Orchestrator) { o.model = model } }

func WithThinkingBudget(n int) Option { return func(o *Orchestrator) { o.thinkingBudget = n } }

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func NewOrchestrator(c Completer, opts ...Option) (*Orchestrator, error) {
	if c == nil {
		return nil, common.NewAppError("CONFIG_ERROR", "AI completer is required", common.ErrMissingCredentials)
	}
	o := &Orchestrator{completer: c, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// StructuredRequest is a schema-driven call: a task instruction applied to
// arbitrary content.
type StructuredRequest struct {
	Task           string
	Content        any
	Format         ResponseFormat // default FormatJSON
	Schema         map[string]any
	Model          string
	ThinkingBudget int
}

// GenerateStructured returns an error only when the backend call itself
// fails. Unparseable JSON comes back as a RawText result.
func (o *Orchestrator) GenerateStructured(ctx context.Context, req StructuredRequest) (Result, error) {
	rid := requestID(ctx)
	start := time.Now()

	prompt, err := BuildStructuredPrompt(req.Task, req.Content)
	if err != nil {
		return Result{}, common.WrapError(err, "build prompt")
	}
	creq := CompletionRequest{
		Model:          firstNonEmpty(req.Model, o.model),
		System:         StructuredSystemInstruction,
		Prompt:         prompt,
		Format:         req.Format,
		Schema:         req.Schema,
		ThinkingBudget: firstPositive(req.ThinkingBudget, o.thinkingBudget),
	}

	o.logger.Info("llm.structured.start", "req_id", rid, "prompt_len", len(prompt), "json", creq.WantsJSON(), "has_schema", req.Schema != nil)

	resp, err := o.completer.Complete(ctx, creq)
	if err != nil {
		o.logger.Error("llm.structured.call_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, errors.Join(common.ErrAIUnavailable, err)
	}

	if !creq.WantsJSON() {
		return RawText(resp.Text), nil
	}

	content := stripCodeFence(resp.Text)
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		o.logger.Warn("llm.structured.unparseable", "req_id", rid, "error", err, "bytes", len(resp.Text))
		return RawText(resp.Text), nil
	}

	res := Parsed(v)
	if req.Schema != nil {
		if vErr := ValidateJSONAgainstSchema(req.Schema, []byte(content)); vErr != nil {
			o.logger.Warn("llm.structured.schema_validation_failed", "req_id", rid, "error", vErr)
			res.SchemaErr = vErr
		}
	}
	o.logger.Info("llm.structured.ok", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}

// SummarizeContract runs the language-aware legal-summary call. Parsing never
// fails; only backend errors are returned.
func (o *Orchestrator) SummarizeContract(ctx context.Context, text string, lang constants.Language) (Summary, error) {
	rid := requestID(ctx)
	start := time.Now()

	system, user := BuildSummaryPrompts(text, lang)
	creq := CompletionRequest{
		Model:          o.model,
		System:         system,
		Prompt:         user,
		Format:         FormatJSON,
		Schema:         BuildSummaryJSONSchema(),
		ThinkingBudget: o.thinkingBudget,
	}

	o.logger.Info("llm.summary.start", "req_id", rid, "language", lang, "text_len", len(text))

	resp, err := o.completer.Complete(ctx, creq)
	if err != nil {
		o.logger.Error("llm.summary.call_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Summary{}, errors.Join(common.ErrAIUnavailable, err)
	}

	s := ParseSummary(resp.Text, lang)
	if s.Mode == constants.ParseModeParsed {
		if vErr := ValidateJSONAgainstSchema(creq.Schema, []byte(reJSONBlock.FindString(resp.Text))); vErr != nil {
			o.logger.Warn("llm.summary.schema_validation_failed", "req_id", rid, "error", vErr)
			s.SchemaErr = vErr
		}
	}
	o.logger.Info("llm.summary.ok",
		"req_id", rid,
		"mode", s.Mode,
		"risk_level", s.RiskLevel,
		"high", len(s.HighRisks),
		"medium", len(s.MediumRisks),
		"low", len(s.LowRisks),
		"prompt_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return s, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func requestID(ctx context.Context) string {
	if id := common.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
