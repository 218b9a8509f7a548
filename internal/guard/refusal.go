package guard

import "leedsbot-backend/internal/models"

const refusalMessage = "I can’t generate or complete assessed work for you.\n" +
	"But I can help you learn it:\n" +
	"• clarify the brief and marking criteria,\n" +
	"• co-create an outline or plan,\n" +
	"• explain concepts with examples,\n" +
	"• review your draft and give feedback,\n" +
	"• create practice questions.\n\n" +
	"Upload your notes or paste your draft, and I’ll help you improve it."

// Refusal is returned in place of a chat reply when a message is blocked.
func Refusal() *models.RefusalPayload {
	return &models.RefusalPayload{
		Blocked: true,
		Policy:  "academic-integrity",
		Message: refusalMessage,
		Alternatives: []models.Alternative{
			{ID: "outline", Label: "Build an outline together"},
			{ID: "plan", Label: "Plan–Do–Review study plan"},
			{ID: "critique", Label: "Get feedback on YOUR draft (not mine)"},
			{ID: "explain", Label: "Explain the rubric & criteria"},
			{ID: "practice", Label: "Generate practice questions (not graded work)"},
		},
	}
}
