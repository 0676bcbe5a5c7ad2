// Package setlist builds ordered DJ setlists from a candidate pool: a greedy
// chain builder for open-ended "infinite flow" sets and an
// interpolation-guided path builder that bridges two fixed endpoint tracks.
package setlist

// Track is a read-only snapshot of a library track. The builders never mutate
// a track's attributes, they only select and order among them.
type Track struct {
	ID           int64
	Title        string
	Artist       string
	Album        string
	Genre        string
	Key          string // free-text or Camelot notation, "" if unknown
	BPM          float64
	Energy       float64
	Danceability float64
	Duration     float64 // seconds
	Filepath     string
	Year         int
}

// Candidate is one pool entry: a track plus its feature embedding, carried
// alongside the track for fast access. Vector is nil when the track has not
// been analyzed.
type Candidate struct {
	ID     int64
	Track  Track
	Vector []float64
}

// Vibe maps feature names ("bpm", "energy", ...) to target values. Absent
// keys mean no bias on that dimension, never an error.
type Vibe map[string]float64
