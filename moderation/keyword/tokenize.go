package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// Splits free-form text in to tokens, including lower-case and unicode
// normalization (NFD, strip combining marks, NFC).
//
// The intent is for this to work similarly to an NLP tokenizer, enabling fast
// matching against lists of known tokens and stable word-set comparisons
// between posts.
func TokenizeText(text string) []string {
	// the transform chain is stateful and must not be shared between calls
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	bare := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	normalized, _, err := transform.String(normFunc, bare)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		normalized = bare
	}
	return strings.Fields(normalized)
}

// Returns the set of normalized tokens in the text.
func WordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range TokenizeText(text) {
		set[tok] = true
	}
	return set
}
