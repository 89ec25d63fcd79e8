package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractWordFile converts DOCX, ODT, and RTF files to plain text.
func extractWordFile(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("convert document: %w", err)
	}
	return text, nil
}
