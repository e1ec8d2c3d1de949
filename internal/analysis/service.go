package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
	"github.com/joseph-ayodele/contract-analyzer/internal/extract"
	"github.com/joseph-ayodele/contract-analyzer/internal/heuristics"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

// DocumentExtractor is what the service needs from the extraction stage.
type DocumentExtractor interface {
	extract.TextExtractor
	ExtractFile(ctx context.Context, path string) (extract.ExtractedDocument, error)
}

// Summarizer is the AI step. *llm.Orchestrator satisfies it.
type Summarizer interface {
	SummarizeContract(ctx context.Context, text string, lang constants.Language) (llm.Summary, error)
}

// Service runs extraction, heuristic structuring and the AI summary for one
// document at a time. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	extractor  DocumentExtractor
	structurer *heuristics.Structurer
	ai         Summarizer
	aiTimeout  time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Service)

// WithAITimeout bounds the AI step; expiry degrades like any other AI failure.
func WithAITimeout(d time.Duration) Option { return func(s *Service) { s.aiTimeout = d } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(ex DocumentExtractor, ai Summarizer, opts ...Option) (*Service, error) {
	if ex == nil {
		return nil, common.NewAppError("CONFIG_ERROR", "text extractor is required", common.ErrInvalidInput)
	}
	if ai == nil {
		return nil, common.NewAppError("CONFIG_ERROR", "AI summarizer is required", common.ErrMissingCredentials)
	}
	s := &Service{
		extractor: ex,
		ai:        ai,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.structurer = heuristics.NewStructurer(s.logger)
	return s, nil
}

// Analyze extracts text from data and analyzes it. Only unsupported formats
// and extraction failures are returned as errors; AI failures produce a
// degraded result instead.
func (s *Service) Analyze(ctx context.Context, data []byte, format constants.Format, lang constants.Language) (*ContractAnalysis, error) {
	ctx, rid := withRequestID(ctx)
	s.logger.Info("analysis.start", "req_id", rid, "format", format, "bytes", len(data), "language", lang)

	doc, err := s.extractor.Extract(ctx, data, format)
	if err != nil {
		s.logger.Error("analysis.extract_failed", "req_id", rid, "error", err)
		return nil, err
	}
	return s.analyzeDocument(ctx, rid, doc, lang), nil
}

// AnalyzeFile is Analyze for a path; the format comes from the extension.
func (s *Service) AnalyzeFile(ctx context.Context, path string, lang constants.Language) (*ContractAnalysis, error) {
	ctx, rid := withRequestID(ctx)
	s.logger.Info("analysis.start", "req_id", rid, "path", path, "language", lang)

	doc, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		s.logger.Error("analysis.extract_failed", "req_id", rid, "path", path, "error", err)
		return nil, err
	}
	return s.analyzeDocument(ctx, rid, doc, lang), nil
}

func (s *Service) analyzeDocument(ctx context.Context, rid string, doc extract.ExtractedDocument, lang constants.Language) *ContractAnalysis {
	start := time.Now()
	a := &ContractAnalysis{
		RequestID:    rid,
		Language:     lang,
		SourceFormat: doc.SourceFormat,
		AnalyzedAt:   s.now().UTC(),
		Extraction: ExtractionInfo{
			Pages:    doc.Pages,
			Method:   doc.Method,
			Warnings: doc.Warnings,
			Chars:    utf8.RuneCountInString(doc.RawText),
		},
	}

	h := s.structurer.Structure(doc.RawText)

	summary, err := s.summarize(ctx, doc.RawText, lang)
	if err != nil {
		s.logger.Warn("analysis.ai_degraded", "req_id", rid, "error", err)
		summary = llm.DefaultSummary(lang)
		a.Status = constants.AnalysisStatusDegraded
		a.AIError = err.Error()
	} else {
		a.Status = constants.AnalysisStatusComplete
	}

	merge(a, h, summary)

	s.logger.Info("analysis.ok",
		"req_id", rid,
		"status", a.Status,
		"contract_type", a.ContractType,
		"risk_level", a.RiskLevel,
		"ai_risk_level", a.AIRiskLevel,
		"ai_parse_mode", a.AIParseMode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return a
}

// summarize converts panics and timeouts into errors so the caller can degrade.
func (s *Service) summarize(ctx context.Context, text string, lang constants.Language) (sum llm.Summary, err error) {
	if s.aiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = common.NewAppError("AI_PANIC", fmt.Sprint(r), common.ErrAIUnavailable)
			s.logger.Error("analysis.ai_panic", "recovered", r)
		}
	}()
	return s.ai.SummarizeContract(ctx, text, lang)
}

func withRequestID(ctx context.Context) (context.Context, string) {
	if id := common.RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return common.WithRequestID(ctx, id), id
}
