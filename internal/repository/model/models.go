package model

import (
	"strings"
	"unicode"
)

// Player is one side of a finished game. Rank is the overall rating the
// player held when the game ended.
type Player struct {
	Name string  `json:"name"`
	Rank float64 `json:"rank"`
}

// GameSummary identifies a finished game and carries enough metadata to
// derive a stable archive filename. Name fields are stored pre-sanitized.
type GameSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	White Player `json:"white"`
	Black Player `json:"black"`
}

// SanitizeName strips a game or player name down to characters that are safe
// in a filename: letters, digits, spaces and underscores.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
