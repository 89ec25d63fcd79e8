package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goalsmith/goalsmith/internal/models"
)

// occupationRecord is one cached occupation page as written by the scraper
// (one JSON file per occupation).
type occupationRecord struct {
	Occupation        string `json:"occupation"`
	URL               string `json:"url"`
	Summary           string `json:"summary"`
	Duties            string `json:"duties"`
	WorkEnvironment   string `json:"work_environment"`
	EducationTraining string `json:"education_training"`
	Requirements      string `json:"requirements"`
	Pay               string `json:"pay"`
	JobOutlook        string `json:"job_outlook"`
	Error             string `json:"error,omitempty"`
}

// OccupationLoader reads the scraper's JSON cache directory and emits one
// document per non-empty occupation section, so each section is retrievable
// on its own.
type OccupationLoader struct {
	dir string
}

// NewOccupationLoader creates a loader over the given cache directory.
func NewOccupationLoader(dir string) *OccupationLoader {
	return &OccupationLoader{dir: dir}
}

// LoadAll reads every *.json file in the cache directory, in name order.
// Records that carry a scrape error are skipped. A missing directory is not
// an error; it yields no documents.
func (l *OccupationLoader) LoadAll() ([]models.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read occupations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []models.Document
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read occupation file %s: %w", name, err)
		}
		var rec occupationRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse occupation file %s: %w", name, err)
		}
		if rec.Error != "" {
			continue
		}
		if rec.Occupation == "" {
			rec.Occupation = strings.TrimSuffix(name, ".json")
		}
		docs = append(docs, rec.documents()...)
	}
	return docs, nil
}

// documents emits one document per non-empty section, matching the corpus
// layout retrieval expects (summary, duties, training).
func (r *occupationRecord) documents() []models.Document {
	sections := []struct {
		label   string
		section string
		text    string
	}{
		{"Summary", "summary", r.Summary},
		{"Duties and Responsibilities", "duties", r.Duties},
		{"Education and Training Requirements", "training", r.EducationTraining},
	}
	var docs []models.Document
	for _, s := range sections {
		if s.text == "" {
			continue
		}
		docs = append(docs, models.Document{
			Text:   fmt.Sprintf("Occupation: %s\n%s: %s", r.Occupation, s.label, s.text),
			Source: models.SourceOccupations,
			Metadata: map[string]string{
				"occupation": r.Occupation,
				"section":    s.section,
			},
		})
	}
	return docs
}
