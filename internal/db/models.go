package db

import (
	"time"

	"github.com/google/uuid"

	"crossfade/internal/setlist"
)

// Track represents an ingested library track with its scalar audio features.
type Track struct {
	ID              int64
	Filepath        string
	Title           string
	Artist          string
	Album           string
	Genre           string
	Subgenre        string
	Year            *int // nullable
	BPM             float64
	Key             string
	Scale           string
	Duration        float64
	Energy          float64
	Danceability    float64
	Loudness        float64
	Brightness      float64
	IsGenreVerified bool
	CreatedAt       time.Time
}

// View converts a database row into the read-only snapshot consumed by the
// setlist builders.
func (t Track) View() setlist.Track {
	year := 0
	if t.Year != nil {
		year = *t.Year
	}
	return setlist.Track{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       t.Artist,
		Album:        t.Album,
		Genre:        t.Genre,
		Key:          t.Key,
		BPM:          t.BPM,
		Energy:       t.Energy,
		Danceability: t.Danceability,
		Duration:     t.Duration,
		Filepath:     t.Filepath,
		Year:         year,
	}
}

// Embedding represents a track's feature embedding produced by the analysis
// pipeline.
type Embedding struct {
	TrackID   int64
	ModelName string
	Vector    []float64
	UpdatedAt time.Time
}

// Setlist represents a saved, ordered track sequence.
type Setlist struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetlistTrack links a track into a setlist at a position.
type SetlistTrack struct {
	SetlistID uuid.UUID
	TrackID   int64
	Position  int
}
