package retrieval

import (
	"strings"

	"github.com/goalsmith/goalsmith/internal/models"
)

// Section headers of the formatted context block, in output order.
const (
	headerCareer    = "Career Information"
	headerStandards = "Relevant Standards"
	headerExamples  = "Example IEP Goals"
)

// FormatContext renders the retrieved evidence as the context block consumed
// by the generation step. Each section lists chunk texts as bullets; a
// section with no entries is omitted entirely, and sections are separated by
// a blank line.
func (r *Retriever) FormatContext(sc *models.StudentContext) string {
	var sections []string
	if s := formatSection(headerCareer, texts(sc.Career, r.opts.CareerEntries)); s != "" {
		sections = append(sections, s)
	}
	if s := formatSection(headerStandards, texts(sc.Standards, r.opts.StandardsEntries)); s != "" {
		sections = append(sections, s)
	}
	if s := formatSection(headerExamples, texts(sc.Examples, r.opts.ExampleEntries)); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n")
}

func formatSection(header string, entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(":")
	for _, e := range entries {
		b.WriteString("\n- ")
		b.WriteString(e)
	}
	return b.String()
}

func texts(results []models.RetrievalResult, max int) []string {
	if max > 0 && len(results) > max {
		results = results[:max]
	}
	out := make([]string, 0, len(results))
	for _, res := range results {
		out = append(out, strings.TrimSpace(res.Chunk.Text))
	}
	return out
}
