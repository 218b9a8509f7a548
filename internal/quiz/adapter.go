package quiz

import "leedsbot-backend/internal/models"

const (
	adaptWindow      = 3
	promoteAtOrAbove = 0.8
	demoteBelow      = 0.5
	weakTopicCount   = 3
)

// Bump moves level by delta steps, clamped to the known range.
func Bump(level models.Level, delta int) models.Level {
	rank := level.Rank() + delta
	if rank < 0 {
		rank = 0
	}
	if rank >= len(models.Levels) {
		rank = len(models.Levels) - 1
	}
	return models.Levels[rank]
}

// Adapt picks the quiz difficulty from the student's recent attempts
// (newest first) and lists the weak topics of the newest one.
func Adapt(base models.Level, attempts []models.QuizAttempt) (models.Level, []string) {
	if len(attempts) == 0 {
		return base, []string{}
	}

	recent := attempts
	if len(recent) > adaptWindow {
		recent = recent[:adaptWindow]
	}

	var sum float64
	for _, a := range recent {
		max := a.MaxScore
		if max < 1 {
			max = 1
		}
		sum += float64(a.Score) / float64(max)
	}
	avg := sum / float64(len(recent))

	target := base
	switch {
	case avg >= promoteAtOrAbove:
		target = Bump(base, 1)
	case avg < demoteBelow:
		target = Bump(base, -1)
	}

	weak := TopTopics(MissedTopics(attempts[0]), weakTopicCount)
	if weak == nil {
		weak = []string{}
	}
	return target, weak
}
