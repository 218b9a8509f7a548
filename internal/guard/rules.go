package guard

import (
	"context"
	"regexp"
	"strings"
)

const (
	reasonKeyword = "Direct request to generate assessed work."
	reasonPattern = "Likely assessed work request."
)

var blockKeywords = []string{
	"do my assignment",
	"write my assignment",
	"finish my coursework",
	"solve my homework",
	"complete my essay",
	"write my dissertation",
	"make my report",
	"make an assignment for me",
	"generate my assignment",
	"full assignment",
	"ready to submit",
	"no plagiarism detector",
	"answer this exam",
	"quiz answer key",
	"test answers",
}

// Learning-oriented phrasing wins over everything else.
var allowHints = []string{
	"outline",
	"plan",
	"rubric",
	"explain",
	"feedback",
	"critique",
	"practice questions",
	"example questions",
	"worked example",
}

var (
	assessedNoun    = regexp.MustCompile(`(?i)(assignment|coursework|essay|report|dissertation|homework|exam|quiz)`)
	assessedRequest = regexp.MustCompile(`(?i)(assignment|coursework|essay|report|dissertation|homework|exam|quiz).*(for me|submit|ready)`)
)

// RuleStage applies the fixed allow hints, block keywords and the
// assessed-work request pattern.
func RuleStage(_ context.Context, text string) Verdict {
	t := strings.ToLower(text)

	for _, hint := range allowHints {
		if strings.Contains(t, hint) {
			return Verdict{Decision: Allow}
		}
	}
	for _, kw := range blockKeywords {
		if strings.Contains(t, kw) {
			return Verdict{Decision: Block, Reason: reasonKeyword, Hit: kw}
		}
	}
	if assessedRequest.MatchString(t) {
		return Verdict{Decision: Block, Reason: reasonPattern}
	}
	return Verdict{Decision: Defer}
}

// MentionsAssessedWork reports whether text names a kind of assessed work.
func MentionsAssessedWork(text string) bool {
	return assessedNoun.MatchString(text)
}
