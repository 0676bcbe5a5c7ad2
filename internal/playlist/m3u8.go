// Package playlist renders setlists into the M3U8 playlist format understood
// by DJ software such as Rekordbox.
package playlist

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one playlist line: a track's file path plus the display metadata
// for its EXTINF header.
type Entry struct {
	Filepath string
	Artist   string
	Title    string
	Duration float64 // seconds; non-positive means unknown
}

// M3U8 renders entries as an extended M3U playlist. Unknown durations are
// written as -1 per the format's convention; entries without a file path are
// skipped.
func M3U8(entries []Entry) string {
	lines := []string{"#EXTM3U"}

	for _, e := range entries {
		if e.Filepath == "" {
			continue
		}

		duration := -1
		if e.Duration > 0 {
			duration = int(e.Duration)
		}

		artist := e.Artist
		if artist == "" {
			artist = "Unknown Artist"
		}
		title := e.Title
		if title == "" {
			title = "Unknown Title"
		}

		lines = append(lines, fmt.Sprintf("#EXTINF:%d,%s - %s", duration, artist, title))
		lines = append(lines, e.Filepath)
	}

	return strings.Join(lines, "\n")
}

var invalidFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// Filename derives a download filename for a setlist, stripping characters
// that are invalid on common filesystems.
func Filename(setlistName string) string {
	name := invalidFilenameChars.ReplaceAllString(setlistName, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "playlist"
	}
	return name + ".m3u8"
}
