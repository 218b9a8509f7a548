package quiz

import (
	"encoding/json"
	"strconv"

	"leedsbot-backend/internal/models"
)

// storedItem is the tolerant view of a persisted quiz item. Only the fields
// needed for analytics are read.
type storedItem struct {
	AnswerIndex any `json:"answerIndex"`
	Topic       any `json:"topic"`
}

// decodeResponses reads the stored item-index → choice map. Object keys are
// decimal strings; arrays are accepted positionally. Anything else decodes
// to an empty map.
func decodeResponses(raw json.RawMessage) map[int]int {
	out := map[int]int{}
	if len(raw) == 0 {
		return out
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for k, v := range obj {
			idx, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			if n, ok := asInt(v); ok {
				out[idx] = n
			}
		}
		return out
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		for i, v := range arr {
			if n, ok := asInt(v); ok {
				out[i] = n
			}
		}
	}
	return out
}

func decodeItems(raw json.RawMessage) []storedItem {
	var items []storedItem
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// MissedTopics lists the topic of every item in the attempt whose
// response differs from the answer index. Items without a topic are
// skipped; a missing response counts as wrong.
func MissedTopics(a models.QuizAttempt) []string {
	items := decodeItems(a.Items)
	responses := decodeResponses(a.Responses)

	var topics []string
	for i, item := range items {
		topic, ok := item.Topic.(string)
		if !ok || topic == "" {
			continue
		}
		answer, ok := asInt(item.AnswerIndex)
		chosen, answered := responses[i]
		if ok && answered && chosen == answer {
			continue
		}
		topics = append(topics, topic)
	}
	return topics
}

// TopTopics returns the n most frequent topics, ties broken by first
// appearance.
func TopTopics(topics []string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, t := range topics {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	// Stable insertion sort keeps first-seen order among equal counts.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	if len(order) > n {
		order = order[:n]
	}
	return order
}
