package services

import (
	"fmt"
	"regexp"
	"strings"

	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/textutil"
)

func intakeSystemPrompt(subject models.Subject, level models.Level) string {
	return fmt.Sprintf("You create 4-5 short intake questions tailored to %s at %s level, ", subject, level) +
		`based ONLY on the document snippets below. Return JSON: { "ask": string[] } and nothing else.`
}

func intakeTemplate(subject models.Subject) []string {
	return []string{
		fmt.Sprintf("Which topics in %s are you working on now?", subject.DisplayName()),
		"What’s your immediate goal (exam, assignment, concept mastery)?",
		"Where do you feel least confident?",
		"Do you prefer worked examples or compact theory?",
		"Any deadlines?",
	}
}

var (
	goalQuestion     = regexp.MustCompile(`(?i)goal`)
	topicsQuestion   = regexp.MustCompile(`(?i)topics?`)
	weaknessQuestion = regexp.MustCompile(`(?i)(least confident|weak|struggl)`)
)

// goalsSummary condenses intake answers into the stored goals line.
func goalsSummary(intake []models.IntakeAnswer) string {
	find := func(re *regexp.Regexp) string {
		for _, qa := range intake {
			if re.MatchString(qa.Q) {
				return qa.A
			}
		}
		return ""
	}
	summary := "Goal: " + find(goalQuestion) +
		" | Topics: " + find(topicsQuestion) +
		" | Weakness: " + find(weaknessQuestion)
	return textutil.Truncate(summary, maxGoalsLen)
}

func tutorSystemPrompt(subject models.Subject, level models.Level, degree models.Degree, hasDocs bool) string {
	parts := []string{
		fmt.Sprintf("You are LeedsBot, a concise HE tutor for %s at %s level (degree: %s).", subject, level, degree),
	}
	if hasDocs {
		parts = append(parts, `Use ONLY the "Documents" plus the student's current question and the brief chat history. If documents do not cover the question, say "Insufficient context from uploaded notes." and ask for the missing file/detail.`)
	} else {
		parts = append(parts, fmt.Sprintf(`There are no uploaded documents. Use widely accepted core syllabus knowledge for %s at %s. DO NOT say "insufficient context" when there are no documents.`, subject, level))
	}
	parts = append(parts,
		`Return ONLY JSON -> { "answer": string, "nextSteps": string[], "ask"?: string[] }`,
		`Style: step-by-step, brief, practical. End with 3–6 actionable nextSteps. Include 2–4 probing follow-up questions in "ask" when helpful.`,
	)
	return strings.Join(parts, " ")
}

func tutorUserPrompt(docsText, msg string) string {
	if docsText == "" {
		docsText = "(none found for this subject/level)"
	}
	question := "No direct question; give a short study plan based on intake + docs."
	if msg != "" {
		question = "Question:\n" + msg
	}
	return strings.Join([]string{"Documents:\n" + docsText + "\n", question}, "\n\n")
}

const quizSystemPrompt = "You are a strict quiz generator that returns valid JSON only."

func quizPrompt(subject models.Subject, level models.Level, hasDocs bool, topics []string) string {
	contextInstruction := fmt.Sprintf("No documents available. Use widely accepted %s core syllabus for %s level.", subject, level)
	if hasDocs {
		contextInstruction = fmt.Sprintf(`Use ONLY the "Documents" AND the student's "Questions". If a detail isn't in those, rely on general %s knowledge to keep quality high.`, subject)
	}

	topicInstruction := fmt.Sprintf("Cover 2–3 distinct core topics appropriate for %s.", level)
	if len(topics) > 0 {
		topicInstruction = fmt.Sprintf("Prioritise these topics (≥3 questions across them): %s.", strings.Join(topics, ", "))
	}

	qualityRules := strings.Join([]string{
		"Exactly 6 questions",
		"Each question has exactly 4 plausible options and 1 correct answer",
		"Mix recall + understanding + application (not all definition-only)",
		"Clear, one-paragraph explanation for each answer",
		"Vary topics; avoid duplicates",
	}, "; ")

	return strings.Join([]string{
		fmt.Sprintf("Create a high-quality multiple-choice quiz for Higher Education %s at %s difficulty.", subject, level),
		contextInstruction,
		topicInstruction,
		"Quality rules: " + qualityRules + ".",
		fmt.Sprintf(`Respond as a SINGLE JSON object: { "items": [ { "question": string, "choices": [string,string,string,string], "answerIndex": 0|1|2|3, "explanation": string, "topic": string, "difficulty": "%s" } ... ] }`, level),
		"No extra text, no code fences.",
	}, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
