// Package mix scores how well two tracks blend into one another, combining
// tempo, harmonic key compatibility, and embedding similarity into a single
// mixability value.
package mix

import (
	"regexp"
	"strings"
)

// camelotPattern matches keys already written in Camelot notation ("8A", "12B").
var camelotPattern = regexp.MustCompile(`^\d{1,2}[AB]$`)

// camelotAdjacency lists the harmonically compatible neighbors for each of the
// 24 Camelot wheel positions: the key itself, its relative major/minor, and
// the adjacent numbers in the same mode (wrapping at 1/12).
var camelotAdjacency = map[string][]string{
	"1A":  {"1A", "1B", "2A", "12A"},
	"1B":  {"1B", "1A", "2B", "12B"},
	"2A":  {"2A", "2B", "3A", "1A"},
	"2B":  {"2B", "2A", "3B", "1B"},
	"3A":  {"3A", "3B", "4A", "2A"},
	"3B":  {"3B", "3A", "4B", "2B"},
	"4A":  {"4A", "4B", "5A", "3A"},
	"4B":  {"4B", "4A", "5B", "3B"},
	"5A":  {"5A", "5B", "6A", "4A"},
	"5B":  {"5B", "5A", "6B", "4B"},
	"6A":  {"6A", "6B", "7A", "5A"},
	"6B":  {"6B", "6A", "7B", "5B"},
	"7A":  {"7A", "7B", "8A", "6A"},
	"7B":  {"7B", "7A", "8B", "6B"},
	"8A":  {"8A", "8B", "9A", "7A"},
	"8B":  {"8B", "8A", "9B", "7B"},
	"9A":  {"9A", "9B", "10A", "8A"},
	"9B":  {"9B", "9A", "10B", "8B"},
	"10A": {"10A", "10B", "11A", "9A"},
	"10B": {"10B", "10A", "11B", "9B"},
	"11A": {"11A", "11B", "12A", "10A"},
	"11B": {"11B", "11A", "12B", "10B"},
	"12A": {"12A", "12B", "1A", "11A"},
	"12B": {"12B", "12A", "1B", "11B"},
}

// keyNames maps conventional key names (including enharmonic spellings) to
// their Camelot wheel position. Kept as an ordered slice, not a map: the
// substring fallback in NormalizeKey scans it in order, and text containing
// "Eb Minor" also contains "B Minor", so a fixed scan order is what keeps the
// resolution stable.
var keyNames = []struct {
	name    string
	camelot string
}{
	{"C Major", "8B"}, {"C Minor", "5A"},
	{"C# Major", "3B"}, {"Db Major", "3B"}, {"C# Minor", "12A"},
	{"D Major", "10B"}, {"D Minor", "7A"},
	{"D# Major", "5B"}, {"Eb Major", "5B"}, {"D# Minor", "2A"}, {"Eb Minor", "2A"},
	{"E Major", "12B"}, {"E Minor", "9A"},
	{"F Major", "7B"}, {"F Minor", "4A"},
	{"F# Major", "2B"}, {"Gb Major", "2B"}, {"F# Minor", "11A"},
	{"G Major", "9B"}, {"G Minor", "6A"},
	{"G# Major", "4B"}, {"Ab Major", "4B"}, {"G# Minor", "1A"},
	{"A Major", "11B"}, {"A Minor", "8A"},
	{"A# Major", "6B"}, {"Bb Major", "6B"}, {"A# Minor", "3A"}, {"Bb Minor", "3A"},
	{"B Major", "1B"}, {"B Minor", "10A"},
}

// NormalizeKey converts a free-text key string to Camelot notation ("8A").
// Camelot-formatted input is returned verbatim. Conventional names are looked
// up exactly, then by case-insensitive substring match, so analyzer output
// like "C Major (detected)" still resolves. Returns "" when the key is empty
// or unrecognized.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" {
		return ""
	}

	if camelotPattern.MatchString(key) {
		return key
	}

	for _, entry := range keyNames {
		if entry.name == key {
			return entry.camelot
		}
	}

	lower := strings.ToLower(key)
	for _, entry := range keyNames {
		if strings.Contains(lower, strings.ToLower(entry.name)) {
			return entry.camelot
		}
	}

	return ""
}

// KeyScore rates the harmonic compatibility of two raw key strings:
// 1.0 for identical normalized keys, 0.9 for Camelot wheel neighbors,
// 0.1 for two known but unrelated keys, and a neutral 0.5 when either key
// is unknown (missing data is not punished).
func KeyScore(target, candidate string) float64 {
	normT := NormalizeKey(target)
	normC := NormalizeKey(candidate)

	if normT == "" || normC == "" {
		return 0.5
	}

	if normT == normC {
		return 1.0
	}

	for _, neighbor := range camelotAdjacency[normT] {
		if neighbor == normC {
			return 0.9
		}
	}

	return 0.1
}
