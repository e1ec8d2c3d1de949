package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// extractPDFWithPdftotext shells out to poppler's pdftotext. Each non-empty
// output line is treated as one fragment; pages are split on form feeds.
func (e *Extractor) extractPDFWithPdftotext(ctx context.Context, data []byte) (ExtractedDocument, error) {
	tmp, err := os.CreateTemp("", "ca-pdf-*.pdf")
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func(path string) {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("extract.temp_cleanup_failed", "path", path, "error", err)
		}
	}(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ExtractedDocument{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ExtractedDocument{}, fmt.Errorf("close temp file: %w", err)
	}

	// pdftotext -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("pdftotext: %w (%s)", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	text, pages, warnings := joinPdftotextPages(string(out))
	return ExtractedDocument{
		RawText:  text,
		Pages:    pages,
		Method:   MethodPDFPdftotext,
		Warnings: warnings,
	}, nil
}

func joinPdftotextPages(out string) (string, int, []string) {
	raw := strings.Split(out, "\f")
	// pdftotext terminates every page with \f, leaving an empty tail
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	var warnings []string
	pages := make([]string, 0, len(raw))
	for i, page := range raw {
		var frags []string
		for _, line := range strings.Split(page, "\n") {
			if l := strings.Join(strings.Fields(line), " "); l != "" {
				frags = append(frags, l)
			}
		}
		if len(frags) == 0 {
			warnings = append(warnings, fmt.Sprintf("page %d has no embedded text layer", i+1))
		}
		pages = append(pages, strings.Join(frags, " "))
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), len(raw), warnings
}
