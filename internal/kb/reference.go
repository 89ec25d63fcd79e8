package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/extract"
	"github.com/goalsmith/goalsmith/internal/models"
)

// LoadReferenceDocuments ingests district-supplied reference documents from
// the configured directories, tagging each with the directory's source label.
// Only files with an allowed extension are read. A missing directory yields
// no documents.
func LoadReferenceDocuments(extractor *extract.Extractor, dirs []config.ReferenceDir, exts []string) ([]models.Document, error) {
	var docs []models.Document
	for _, dir := range dirs {
		source := dir.Source
		if source == "" {
			source = models.SourceStandards
		}
		err := filepath.WalkDir(dir.Path, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if len(exts) > 0 && !extensionAllowed(filepath.Ext(path), exts) {
				return nil
			}
			text, err := extractor.Extract(path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			if strings.TrimSpace(text) == "" {
				return nil
			}
			docs = append(docs, models.Document{
				Text:   text,
				Source: source,
				Metadata: map[string]string{
					"path":    path,
					"section": "reference",
				},
			})
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}
	return docs, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
