package studyctx

import "leedsbot-backend/internal/models"

var globalTopics = map[models.Subject]map[models.Level][]string{
	models.SubjectDatabaseSystems: {
		models.LevelBeginner:     {"keys", "joins", "sql-dml", "normalization", "constraints"},
		models.LevelIntermediate: {"indexes", "query-plans", "transactions", "isolation-levels", "views"},
		models.LevelAdvanced:     {"partitioning", "sharding", "concurrency", "materialized-views", "optimizer-hints"},
	},
	models.SubjectMaths: {
		models.LevelBeginner:     {"arithmetic", "fractions", "basic-algebra"},
		models.LevelIntermediate: {"quadratics", "functions", "trig-basics"},
		models.LevelAdvanced:     {"calculus", "linear-algebra", "probability"},
	},
	models.SubjectMidge: {
		models.LevelBeginner:     {"intro"},
		models.LevelIntermediate: {"core"},
		models.LevelAdvanced:     {"advanced"},
	},
}

// GlobalTopics returns the syllabus topics for a subject and level, or an
// empty list.
func GlobalTopics(subject models.Subject, level models.Level) []string {
	topics := globalTopics[subject][level]
	return append([]string{}, topics...)
}
