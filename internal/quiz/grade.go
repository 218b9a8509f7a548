package quiz

import "leedsbot-backend/internal/models"

// Grade counts answers matching each item's answer index. Unanswered items
// score nothing.
func Grade(items []models.QuizItem, answers map[int]int) (score, max int) {
	for i, item := range items {
		if chosen, ok := answers[i]; ok && chosen == item.AnswerIndex {
			score++
		}
	}
	return score, len(items)
}
