package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Decompose, then drop combining marks ("é" -> "e", "ñ" -> "n").
	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

	nonLetter  = regexp.MustCompile(`[^a-z\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize maps a raw display name to its canonical comparison key.
//
// The key is accent-stripped, lowercased, has every character that is not
// a-z or whitespace replaced by a space, and has whitespace collapsed and
// trimmed. The second return is false when nothing usable remains; callers
// must not treat "" as a valid key.
//
// Registry ids are derived from the key, so any change here invalidates ids
// produced by earlier runs.
//
//	"José Martínez"     -> "jose martinez"
//	"JOSE   MARTINEZ!!" -> "jose martinez"
//	"M.Torro-Flor"      -> "m torro flor"
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	s, _, _ = transform.String(stripMarks, s)

	s = strings.ToLower(s)
	s = nonLetter.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", false
	}
	return s, true
}

// TokenCount returns the number of whitespace-separated tokens in raw.
func TokenCount(raw string) int {
	return len(strings.Fields(raw))
}
