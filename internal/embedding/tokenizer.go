// Package embedding turns text into term-frequency vectors over a corpus vocabulary.
package embedding

import (
	"regexp"
	"strings"
)

// nonWord matches runs of characters outside [0-9A-Za-z_].
var nonWord = regexp.MustCompile(`\W+`)

// Tokenize lowercases text and splits it on runs of non-word characters,
// dropping empty tokens. Empty text yields nil.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	parts := nonWord.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
