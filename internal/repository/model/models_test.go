package model

import (
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name",
			input:    "Friendly Match",
			expected: "Friendly Match",
		},
		{
			name:     "underscores kept",
			input:    "go_player_42",
			expected: "go_player_42",
		},
		{
			name:     "path separators stripped",
			input:    "../../etc/passwd",
			expected: "etcpasswd",
		},
		{
			name:     "brackets and punctuation stripped",
			input:    "Tournament [Round 2]: a vs. b",
			expected: "Tournament Round 2 a vs b",
		},
		{
			name:     "unicode letters kept",
			input:    "囲碁の対局",
			expected: "囲碁の対局",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
