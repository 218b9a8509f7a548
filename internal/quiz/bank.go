package quiz

import "leedsbot-backend/internal/models"

var databaseSystemsBank = []models.QuizItem{
	{
		Question:    "What is a primary key?",
		Choices:     []string{"Allows NULL duplicates", "Uniquely identifies each row", "References another table", "Used only for sorting"},
		AnswerIndex: 1,
		Explanation: "A primary key uniquely identifies rows and cannot be NULL.",
		Topic:       "keys",
	},
	{
		Question:    "Which statement inserts a new row?",
		Choices:     []string{"ADD ROW", "INSERT INTO", "CREATE ROW", "APPEND"},
		AnswerIndex: 1,
		Explanation: "`INSERT INTO` adds new rows.",
		Topic:       "sql-dml",
	},
	{
		Question:    "A foreign key enforces…",
		Choices:     []string{"Uniqueness inside same table", "Referential integrity to a parent table", "Automatic indexes", "Faster full scans"},
		AnswerIndex: 1,
		Explanation: "Foreign keys ensure child values exist in the parent table.",
		Topic:       "keys",
	},
	{
		Question:    "Which JOIN returns only matches in both tables?",
		Choices:     []string{"LEFT JOIN", "RIGHT JOIN", "FULL OUTER JOIN", "INNER JOIN"},
		AnswerIndex: 3,
		Explanation: "INNER JOIN keeps rows that match on both sides.",
		Topic:       "joins",
	},
	{
		Question:    "Which clause filters aggregated groups?",
		Choices:     []string{"WHERE", "HAVING", "ORDER BY", "LIMIT/FETCH"},
		AnswerIndex: 1,
		Explanation: "HAVING filters *after* GROUP BY, WHERE filters rows *before* grouping.",
		Topic:       "aggregation",
	},
	{
		Question:    "What is 3NF about?",
		Choices:     []string{"Combining all data into one table", "Encrypting data", "Reducing redundancy with well-structured tables", "Only using denormalization"},
		AnswerIndex: 2,
		Explanation: "3NF reduces redundancy and anomalies via proper dependencies.",
		Topic:       "normalization",
	},
}

var mathsBank = []models.QuizItem{
	{
		Question:    "What is 3/4 + 1/8?",
		Choices:     []string{"4/12", "7/8", "1/2", "5/8"},
		AnswerIndex: 1,
		Explanation: "Rewrite 3/4 as 6/8, then 6/8 + 1/8 = 7/8.",
		Topic:       "fractions",
	},
	{
		Question:    "Solve 2x + 5 = 17.",
		Choices:     []string{"x = 6", "x = 11", "x = 8.5", "x = 4"},
		AnswerIndex: 0,
		Explanation: "Subtract 5 from both sides to get 2x = 12, then divide by 2.",
		Topic:       "basic-algebra",
	},
	{
		Question:    "What are the roots of x² − 5x + 6 = 0?",
		Choices:     []string{"x = −2 and x = −3", "x = 1 and x = 6", "x = 2 and x = 3", "x = −1 and x = 6"},
		AnswerIndex: 2,
		Explanation: "The quadratic factorises as (x − 2)(x − 3) = 0.",
		Topic:       "quadratics",
	},
	{
		Question:    "If f(x) = 3x − 1, what is f(4)?",
		Choices:     []string{"7", "12", "13", "11"},
		AnswerIndex: 3,
		Explanation: "Substitute x = 4: 3 × 4 − 1 = 11.",
		Topic:       "functions",
	},
	{
		Question:    "What is the derivative of x³?",
		Choices:     []string{"3x²", "x²", "3x", "x⁴/4"},
		AnswerIndex: 0,
		Explanation: "By the power rule, d/dx xⁿ = n·xⁿ⁻¹, so d/dx x³ = 3x².",
		Topic:       "calculus",
	},
	{
		Question:    "A fair die is rolled once. What is the probability of an even number?",
		Choices:     []string{"1/6", "1/3", "2/3", "1/2"},
		AnswerIndex: 3,
		Explanation: "Three of the six equally likely outcomes (2, 4, 6) are even.",
		Topic:       "probability",
	},
}

var midgeBank = []models.QuizItem{
	{
		Question:    "What is the most effective first step when starting a new module topic?",
		Choices:     []string{"Memorise the whole chapter", "Skim the learning outcomes and key terms", "Start with past exam answers", "Wait for the revision lecture"},
		AnswerIndex: 1,
		Explanation: "Learning outcomes and key terms frame what the topic expects you to understand.",
		Topic:       "intro",
	},
	{
		Question:    "Which technique best checks whether you understand a concept?",
		Choices:     []string{"Re-reading your notes", "Highlighting the slides", "Explaining it in your own words without notes", "Copying definitions"},
		AnswerIndex: 2,
		Explanation: "Self-explanation exposes gaps that passive review hides.",
		Topic:       "intro",
	},
	{
		Question:    "What does spaced practice mean?",
		Choices:     []string{"Reviewing material over several sessions with gaps between them", "Studying in one long session", "Leaving space in your notes", "Practising only the night before"},
		AnswerIndex: 0,
		Explanation: "Spreading review over time improves long-term retention.",
		Topic:       "core",
	},
	{
		Question:    "A worked example is most useful when…",
		Choices:     []string{"You copy it into an assignment", "You skip the steps", "You only read the final answer", "You study each step and then try a similar problem"},
		AnswerIndex: 3,
		Explanation: "Worked examples help when followed by an attempt at a similar problem.",
		Topic:       "core",
	},
	{
		Question:    "Which is the best use of marking criteria?",
		Choices:     []string{"Ignore them until feedback arrives", "Use them to plan and self-check your draft", "Read them after submitting", "Only check the word count"},
		AnswerIndex: 1,
		Explanation: "Criteria describe what earns marks, so they guide planning and review.",
		Topic:       "core",
	},
	{
		Question:    "What is interleaving?",
		Choices:     []string{"Mixing different problem types within one practice session", "Studying one topic until mastered", "Alternating between sleep and study", "Reading two textbooks at once"},
		AnswerIndex: 0,
		Explanation: "Mixing problem types trains you to choose the right method, not just apply it.",
		Topic:       "advanced",
	},
}

var genericBank = []models.QuizItem{
	{
		Question:    "What is 2 + 2?",
		Choices:     []string{"1", "2", "3", "4"},
		AnswerIndex: 3,
		Explanation: "2 + 2 = 4",
		Topic:       "arithmetic",
	},
}

// FallbackBank returns the canned items for subject at the given level.
// The result is a copy and may be shorter than six.
func FallbackBank(subject models.Subject, level models.Level) []models.QuizItem {
	var bank []models.QuizItem
	switch subject {
	case models.SubjectDatabaseSystems:
		bank = databaseSystemsBank
	case models.SubjectMaths:
		bank = mathsBank
	case models.SubjectMidge:
		bank = midgeBank
	default:
		bank = genericBank
	}

	out := make([]models.QuizItem, len(bank))
	for i, item := range bank {
		item.Choices = append([]string(nil), item.Choices...)
		item.Difficulty = level
		out[i] = item
	}
	return out
}
