// Package textutil holds the small string helpers shared by prompt assembly
// and persistence.
package textutil

import "unicode/utf8"

// Truncate cuts s to at most max runes. It is a straight prefix cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// RuneLen reports the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Cap returns the first n elements of items (or all of them).
func Cap[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
