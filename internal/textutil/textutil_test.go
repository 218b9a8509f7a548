package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		expected string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"prefix cut", "hello world", 5, "hello"},
		{"multibyte runes", "héllo wörld", 7, "héllo w"},
		{"zero max", "hello", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Truncate(tc.in, tc.max)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestCap(t *testing.T) {
	items := []string{"a", "b", "c"}
	if got := Cap(items, 2); len(got) != 2 {
		t.Errorf("Expected 2 items, got %d", len(got))
	}
	if got := Cap(items, 5); len(got) != 3 {
		t.Errorf("Expected 3 items, got %d", len(got))
	}
}
