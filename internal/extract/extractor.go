package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

const (
	PDFBackendNative    = "native"
	PDFBackendPdftotext = "pdftotext"
)

type Config struct {
	PDFBackend    string // "native" (default) | "pdftotext"
	Pdftotext     string // binary name or absolute path; if empty -> "pdftotext"
	MaxDocumentMB int    // 0 -> constants.DefaultMaxDocumentMB
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

var errTooLarge = errors.New("document too large")

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PDFBackend == "" {
		cfg.PDFBackend = PDFBackendNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.MaxDocumentMB <= 0 {
		cfg.MaxDocumentMB = constants.DefaultMaxDocumentMB
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the external command runner (used by the pdftotext backend).
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// ExtractFile reads path and extracts it using the format implied by its extension.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (ExtractedDocument, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		e.logger.Error("extract.unsupported_format", "path", path, "ext", filepath.Ext(path))
		return ExtractedDocument{}, &common.UnsupportedFormatError{Format: constants.NormalizeExt(filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("extract.read_failed", "path", path, "error", err)
		return ExtractedDocument{}, common.NewExtractionError(format, err)
	}
	return e.Extract(ctx, data, format)
}

// Extract converts document bytes into a single plain-text string.
// The same input bytes always produce the same text.
func (e *Extractor) Extract(ctx context.Context, data []byte, format constants.Format) (ExtractedDocument, error) {
	start := time.Now()
	if _, ok := constants.ParseFormat(string(format)); !ok {
		e.logger.Error("extract.unsupported_format", "format", format)
		return ExtractedDocument{}, &common.UnsupportedFormatError{Format: string(format)}
	}
	if err := ctx.Err(); err != nil {
		return ExtractedDocument{}, common.NewExtractionError(format, err)
	}
	if limit := e.cfg.MaxDocumentMB << 20; len(data) > limit {
		err := fmt.Errorf("%w: %d bytes (max %d)", errTooLarge, len(data), limit)
		e.logger.Error("extract.too_large", "format", format, "bytes", len(data))
		return ExtractedDocument{}, common.NewExtractionError(format, err)
	}
	if len(data) == 0 {
		return ExtractedDocument{}, common.NewExtractionError(format, errors.New("empty document"))
	}

	e.logger.Debug("extract.start", "format", format, "bytes", len(data), "pdf_backend", e.cfg.PDFBackend)

	var (
		doc ExtractedDocument
		err error
	)
	switch format {
	case constants.PDF:
		if e.cfg.PDFBackend == PDFBackendPdftotext {
			doc, err = e.extractPDFWithPdftotext(ctx, data)
		} else {
			doc, err = extractPDFNative(data)
		}
	case constants.DOCX:
		doc, err = extractDOCX(data)
	}
	if err != nil {
		e.logger.Error("extract.failed", "format", format, "error", err)
		return ExtractedDocument{}, common.NewExtractionError(format, err)
	}

	doc.SourceFormat = format
	doc.Duration = time.Since(start)
	for _, w := range doc.Warnings {
		e.logger.Warn("extract.warning", "format", format, "method", doc.Method, "warning", w)
	}
	e.logger.Info("extract.ok",
		"format", format,
		"method", doc.Method,
		"pages", doc.Pages,
		"text_len", len(doc.RawText),
		"warnings", len(doc.Warnings),
		"elapsed_ms", doc.Duration.Milliseconds(),
	)
	return doc, nil
}

var _ TextExtractor = (*Extractor)(nil)
