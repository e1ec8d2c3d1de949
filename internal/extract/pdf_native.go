package extract

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFNative reads the embedded text layer. For each page the text
// fragments are joined with a single space; pages are joined with a newline.
// Image-only pages yield empty text and a warning, never an error.
func extractPDFNative(data []byte) (doc ExtractedDocument, err error) {
	defer func() {
		// the pdf reader panics on some malformed content streams
		if r := recover(); r != nil {
			doc = ExtractedDocument{}
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("open pdf: %w", err)
	}

	n := rd.NumPage()
	pages := make([]string, 0, n)
	var warnings []string
	for i := 1; i <= n; i++ {
		p := rd.Page(i)
		if p.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d could not be read", i))
			pages = append(pages, "")
			continue
		}
		text := strings.Join(textFragments(p.Content().Text), " ")
		if strings.TrimSpace(text) == "" {
			warnings = append(warnings, fmt.Sprintf("page %d has no embedded text layer", i))
		}
		pages = append(pages, text)
	}

	return ExtractedDocument{
		RawText:  strings.TrimSpace(strings.Join(pages, "\n")),
		Pages:    n,
		Method:   MethodPDFNative,
		Warnings: warnings,
	}, nil
}

// textFragments groups positioned glyphs into runs that share a baseline and
// font. A visible horizontal gap inside a run becomes a single space.
func textFragments(glyphs []pdf.Text) []string {
	var (
		out  []string
		cur  strings.Builder
		prev *pdf.Text
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			sameLine := math.Abs(g.Y-prev.Y) < baselineTolerance(prev)
			if !sameLine || g.Font != prev.Font {
				flush()
			} else if gap := g.X - (prev.X + prev.W); gap > prev.FontSize*0.25 && !endsWithSpace(&cur) && g.S != " " {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(g.S)
		prev = g
	}
	flush()
	return out
}

func baselineTolerance(t *pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.4
	}
	return 1
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, " ")
}
