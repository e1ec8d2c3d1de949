package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

const docxMainPart = "word/document.xml"

// skipped content that cannot be represented as text
var docxSkipped = map[string]string{
	"drawing": "embedded drawing",
	"pict":    "embedded picture",
	"object":  "embedded object",
	"chart":   "embedded chart",
}

// extractDOCX pulls the raw text out of word/document.xml, discarding all
// formatting. Paragraphs are separated by a blank line. Content that has no
// text representation is reported as a warning.
func extractDOCX(data []byte) (ExtractedDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return ExtractedDocument{}, errors.New("docx archive has no " + docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("open %s: %w", docxMainPart, err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, skipped, err := docxParagraphs(rc)
	if err != nil {
		return ExtractedDocument{}, fmt.Errorf("parse %s: %w", docxMainPart, err)
	}

	var warnings []string
	kinds := make([]string, 0, len(skipped))
	for k := range skipped {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		warnings = append(warnings, fmt.Sprintf("%d %s(s) ignored", skipped[k], docxSkipped[k]))
	}

	return ExtractedDocument{
		RawText:  strings.TrimSpace(strings.Join(paragraphs, "\n\n")),
		Pages:    0,
		Method:   MethodDOCX,
		Warnings: warnings,
	}, nil
}

func docxParagraphs(r io.Reader) ([]string, map[string]int, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		cur        strings.Builder
		inText     bool
		inPara     bool
		skipDepth  int
	)
	skipped := map[string]int{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 {
				skipDepth++
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			default:
				if _, ok := docxSkipped[t.Name.Local]; ok {
					skipped[t.Name.Local]++
					skipDepth = 1
				}
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, cur.String())
				}
				inPara = false
				cur.Reset()
			}
		case xml.CharData:
			if inText && skipDepth == 0 {
				cur.Write(t)
			}
		}
	}
	return paragraphs, skipped, nil
}
