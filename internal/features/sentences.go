package features

import (
	"strings"
	"unicode"
)

// Abbreviations that end with a period but do not end a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"e.g": true, "i.e": true, "inc": true, "ltd": true, "corp": true,
	"co": true, "dept": true, "univ": true, "approx": true, "no": true,
}

// SplitSentences segments text into sentences. It is deliberately smarter
// than splitting on every period: abbreviations, decimal numbers, initials
// and version strings stay inside their sentence so that position snippets
// are not cut mid-thought.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' && r != '\n' {
			continue
		}

		if r == '.' && !boundaryAfterPeriod(runes, i) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// boundaryAfterPeriod reports whether the period at index i plausibly ends a
// sentence.
func boundaryAfterPeriod(runes []rune, i int) bool {
	// Decimal numbers and dotted tokens: "3.5", "node.js".
	if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
		return false
	}

	word := trailingWord(runes, i)
	if abbreviations[strings.ToLower(word)] {
		return false
	}
	// Single-letter initials: "John D. Smith".
	if len([]rune(word)) == 1 && unicode.IsUpper([]rune(word)[0]) {
		return false
	}

	// Require the next sentence to start with an uppercase letter, a digit
	// or a bullet-like rune.
	for j := i + 1; j < len(runes); j++ {
		if unicode.IsSpace(runes[j]) {
			continue
		}
		r := runes[j]
		return unicode.IsUpper(r) || unicode.IsDigit(r) || !unicode.IsLetter(r)
	}
	return true
}

// trailingWord returns the word ending right before index i (exclusive of the
// period at i), keeping interior dots so "e.g" is recognized.
func trailingWord(runes []rune, i int) string {
	end := i
	start := end
	for start > 0 {
		r := runes[start-1]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			start--
			continue
		}
		break
	}
	return strings.TrimSuffix(string(runes[start:end]), ".")
}
