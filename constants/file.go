package constants

import "strings"

// Format is the declared source format of an uploaded contract.
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
)

// AllowedExtensions maps lowercase extensions (without '.') to their format.
var AllowedExtensions = map[string]Format{
	"pdf":  PDF,
	"docx": DOCX,
}

// DefaultMaxDocumentMB caps the size of a single uploaded document.
const DefaultMaxDocumentMB = 25

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}

// ParseFormat accepts "pdf", ".PDF", "docx", etc.
func ParseFormat(s string) (Format, bool) {
	f := MapExtToFormat(s)
	return f, f != ""
}
