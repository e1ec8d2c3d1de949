package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
	"github.com/joseph-ayodele/contract-analyzer/internal/export"
	"github.com/joseph-ayodele/contract-analyzer/internal/extract"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm/gemini"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm/openai"
)

type rootOptions struct {
	envFile  string
	lang     string
	provider string
	logLevel string
}

// app holds the wired pipeline shared by every subcommand.
type app struct {
	cfg      *common.Config
	logger   *slog.Logger
	service  *analysis.Service
	exporter *export.Exporter
	lang     constants.Language
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "contract-analyzer",
		Short:         "Extract, structure and risk-score PDF/DOCX contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "en", "narrative language for the AI summary (en|ar)")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "AI provider override (gemini|openai)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newBatchCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setup(stderr io.Writer) (*app, error) {
	if err := common.LoadDotEnv(o.envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", o.envFile, err)
	}
	cfg := common.LoadConfig()
	if o.provider != "" {
		cfg.AI.Provider = strings.ToLower(o.provider)
	}
	if o.logLevel != "" {
		cfg.Log.Level = strings.ToLower(o.logLevel)
	}
	if err := common.NewValidator().Field("lang", o.lang, common.OneOf("en", "ar")).Err(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log, stderr)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "error", err)
		return nil, err
	}

	completer, err := newCompleter(cfg.AI, logger)
	if err != nil {
		logger.Error("ai.client.failed", "provider", cfg.AI.Provider, "error", err)
		return nil, err
	}
	orch, err := llm.NewOrchestrator(completer,
		llm.WithThinkingBudget(cfg.AI.ThinkingBudget),
		llm.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	extractor := extract.NewExtractor(extract.Config{
		PDFBackend:    cfg.Extract.PDFBackend,
		Pdftotext:     cfg.Extract.Pdftotext,
		MaxDocumentMB: cfg.Extract.MaxDocumentMB,
	}, logger)

	svc, err := analysis.NewService(extractor, orch,
		analysis.WithAITimeout(cfg.Batch.AnalysisTimeout),
		analysis.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("pipeline.ready", "provider", cfg.AI.Provider, "pdf_backend", cfg.Extract.PDFBackend)
	return &app{
		cfg:      cfg,
		logger:   logger,
		service:  svc,
		exporter: export.NewExporter(logger),
		lang:     constants.ParseLanguage(o.lang),
	}, nil
}

// newLogger builds the slog handler from LOG_LEVEL and LOG_FORMAT.
func newLogger(cfg common.LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

// newCompleter picks the AI backend. Missing keys fail here, before any document is read.
func newCompleter(cfg common.AIConfig, logger *slog.Logger) (llm.Completer, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			RateLimit:   cfg.RateLimit,
			RateBurst:   cfg.RateBurst,
			MaxRetries:  cfg.MaxRetries,
		}, logger)
	case "gemini", "":
		return gemini.NewClient(gemini.Config{
			APIKey:         cfg.GeminiAPIKey,
			BaseURL:        cfg.GeminiBaseURL,
			Model:          cfg.GeminiModel,
			Temperature:    cfg.Temperature,
			ThinkingBudget: cfg.ThinkingBudget,
			Timeout:        cfg.Timeout,
			RateLimit:      cfg.RateLimit,
			RateBurst:      cfg.RateBurst,
			MaxRetries:     cfg.MaxRetries,
		}, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", "unknown AI provider "+cfg.Provider, common.ErrInvalidInput)
	}
}
