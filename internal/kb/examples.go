package kb

import (
	"fmt"

	"github.com/goalsmith/goalsmith/internal/models"
)

// sampleGoal is one reference IEP transition goal with its goal type and
// the planning context it illustrates.
type sampleGoal struct {
	goalType string
	text     string
	context  string
}

var sampleGoals = []sampleGoal{
	{
		goalType: "employment_goal",
		text:     "After high school, [Student] will obtain a full-time job at [Company] as a [Position].",
		context:  "Postsecondary employment goal for retail",
	},
	{
		goalType: "training_goal",
		text:     "After high school, [Student] will complete on-the-job training provided by [Employer] and participate in employer-sponsored workshops.",
		context:  "Postsecondary education/training goal",
	},
	{
		goalType: "annual_objective",
		text:     "In 36 weeks, [Student] will demonstrate effective workplace communication and customer service skills in role-play and community-based instruction settings by appropriately greeting customers, maintaining eye contact, listening actively, and responding to customer questions in 4 out of 5 observed opportunities.",
		context:  "Annual IEP objective aligned with employability standards",
	},
	{
		goalType: "short_term_objective",
		text:     "Within 12 weeks, [Student] will practice appropriate workplace greetings with staff and peers in the classroom setting, using eye contact and clear speech in 8 out of 10 opportunities.",
		context:  "Short-term objective building toward annual goal",
	},
	{
		goalType: "short_term_objective",
		text:     "Within 24 weeks, [Student] will demonstrate active listening skills by responding appropriately to supervisor instructions during community-based instruction in 4 out of 5 trials.",
		context:  "Short-term objective for listening skills",
	},
	{
		goalType: "employment_goal",
		text:     "Upon completion of high school, [Student] will obtain competitive integrated employment in the food service industry working at least 20 hours per week.",
		context:  "Postsecondary employment goal for food service",
	},
	{
		goalType: "annual_objective",
		text:     "By the end of the IEP period, [Student] will demonstrate job-seeking skills by completing online job applications, preparing a resume, and participating in mock interviews with 80% accuracy.",
		context:  "Annual objective for job readiness",
	},
}

// LoadSampleGoals returns one document per reference goal.
func LoadSampleGoals() []models.Document {
	docs := make([]models.Document, 0, len(sampleGoals))
	for _, g := range sampleGoals {
		docs = append(docs, models.Document{
			Text:   fmt.Sprintf("Sample %s: %s\nContext: %s", categoryTitle(g.goalType), g.text, g.context),
			Source: models.SourceExamples,
			Metadata: map[string]string{
				"type":    g.goalType,
				"section": "examples",
			},
		})
	}
	return docs
}
