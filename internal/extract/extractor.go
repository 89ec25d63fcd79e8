// Package extract provides text extraction from reference document formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// Plain text files (.txt, .md) are returned as-is (UTF-8 validated); PDF,
// DOCX, ODT, and RTF are converted. Unknown extensions are treated as plain
// text. Returns an error if the file cannot be read or converted.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return extractPDF(content)
	case ".docx", ".odt", ".rtf":
		return extractWordFile(path)
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return extractPlain(content)
	}
}
