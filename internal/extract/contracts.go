package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// TextExtractor is stage 1 of the pipeline: document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, format constants.Format) (ExtractedDocument, error)
}

// ExtractedDocument is immutable once returned.
type ExtractedDocument struct {
	RawText      string           `json:"rawText"`
	SourceFormat constants.Format `json:"sourceFormat"`
	Pages        int              `json:"pages"`
	Method       string           `json:"method"` // "pdf-native" | "pdf-pdftotext" | "docx-xml"
	Warnings     []string         `json:"warnings,omitempty"`
	Duration     time.Duration    `json:"-"`
}

const (
	MethodPDFNative    = "pdf-native"
	MethodPDFPdftotext = "pdf-pdftotext"
	MethodDOCX         = "docx-xml"
)
