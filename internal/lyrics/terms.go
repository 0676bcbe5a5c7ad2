package lyrics

import (
	"regexp"
	"strings"
)

var (
	// bpmTransitionPattern matches DJ transition tools named like "100-124".
	bpmTransitionPattern = regexp.MustCompile(`\d{2,3}-\d{2,3}`)

	// djToolPattern matches edits and tools whose lyrics would never match
	// the audio. "Mix" is deliberately absent: "Original Mix" is ordinary.
	djToolPattern = regexp.MustCompile(`(?i)\b(transition|intro|outro|clean|dirty|extended|edit|mashup|bootleg)\b`)

	bracketedPattern = regexp.MustCompile(`[(\[].*?[)\]]`)
)

// IsDJTool reports whether a title looks like a DJ tool, remix, or edit that
// should be skipped during metadata lookups.
func IsDJTool(title string) bool {
	if title == "" {
		return false
	}
	return bpmTransitionPattern.MatchString(title) || djToolPattern.MatchString(title)
}

// CleanTerm strips bracketed noise like "(feat. Guest)" from a search term
// and normalizes whitespace, improving hit rates on fuzzy lookups.
func CleanTerm(term string) string {
	cleaned := bracketedPattern.ReplaceAllString(term, "")
	return strings.Join(strings.Fields(cleaned), " ")
}
