package kb

import (
	"fmt"
	"strings"

	"github.com/goalsmith/goalsmith/internal/models"
)

// standardsCategory groups Iowa 21st Century Skills statements under one
// framework category.
type standardsCategory struct {
	key    string
	skills []string
}

// iowaStandards are the key employability standards from Iowa's 21st Century
// Skills framework, grouped by category.
var iowaStandards = []standardsCategory{
	{
		key: "employability_skills",
		skills: []string{
			"Communicate and work productively with others, incorporating different perspectives and cross-cultural understanding, to increase innovation and the quality of work",
			"Adapt to various roles and responsibilities and work flexibly in climates of ambiguity and changing priorities",
			"Demonstrate initiative and entrepreneurial thinking by exploring new or innovative solutions",
			"Demonstrate productivity and accountability by meeting high expectations",
			"Show leadership by setting goals, resolving conflicts, and guiding others",
			"Demonstrate ethical behavior and respect for others",
		},
	},
	{
		key: "communication_skills",
		skills: []string{
			"Listen actively to decipher meaning, including knowledge, values, attitudes, and intentions",
			"Use communication for a range of purposes (e.g., to inform, instruct, motivate, and persuade)",
			"Use multiple media and technologies to communicate effectively",
			"Communicate effectively in diverse environments (including multilingual and multicultural)",
		},
	},
	{
		key: "critical_thinking",
		skills: []string{
			"Exercise sound reasoning in understanding and making complex choices",
			"Understand the interconnections among systems",
			"Identify and ask significant questions that clarify various points of view",
			"Frame, analyze, and solve problems",
		},
	},
	{
		key: "self_direction",
		skills: []string{
			"Monitor one's own learning and adapt strategies as needed",
			"Demonstrate initiative to advance skill levels toward professional level",
			"Set and meet high standards and goals for oneself and others",
			"Manage time and projects effectively",
		},
	},
}

// ideaRequirements are the IDEA 2004 transition-planning requirements that
// every standards list must be able to surface.
var ideaRequirements = []string{
	"Include appropriate measurable postsecondary goals based upon age-appropriate transition assessments related to training, education, employment, and, where appropriate, independent living skills",
	"Include the transition services (including courses of study) needed to assist the child in reaching those goals",
	"Goals must be updated annually, beginning not later than the first IEP to be in effect when the child turns 16",
	"Postsecondary goals must be measurable",
	"Transition assessments must be age-appropriate",
	"Goals should be based on student's strengths, preferences, and interests",
}

// LoadIowaStandards returns one document per standard statement.
func LoadIowaStandards() []models.Document {
	var docs []models.Document
	for _, cat := range iowaStandards {
		for _, skill := range cat.skills {
			docs = append(docs, models.Document{
				Text:   fmt.Sprintf("Iowa 21st Century Skills - %s: %s", categoryTitle(cat.key), skill),
				Source: models.SourceStandards,
				Metadata: map[string]string{
					"category": cat.key,
					"section":  "standards",
				},
			})
		}
	}
	return docs
}

// LoadIDEARequirements returns one document per IDEA 2004 transition requirement.
func LoadIDEARequirements() []models.Document {
	docs := make([]models.Document, 0, len(ideaRequirements))
	for _, req := range ideaRequirements {
		docs = append(docs, models.Document{
			Text:   fmt.Sprintf("IDEA 2004 Transition Requirement: %s", req),
			Source: models.SourceRegulations,
			Metadata: map[string]string{
				"section": "requirements",
			},
		})
	}
	return docs
}

// categoryTitle converts a category key like "employability_skills" to
// "Employability Skills".
func categoryTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
