package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"crossfade/internal/db"
	"crossfade/internal/mix"
)

// Sentinel errors for genre suggestion.
var (
	// ErrNoEmbedding is returned when the target track has not been analyzed.
	ErrNoEmbedding = errors.New("track has no embedding")

	// ErrNoVerifiedTracks is returned when the library holds no
	// genre-verified tracks to compare against.
	ErrNoVerifiedTracks = errors.New("no genre-verified tracks")
)

// suggestGenreTopK bounds how many nearest verified tracks vote on the genre.
const suggestGenreTopK = 10

// SuggestGenre proposes a genre for a track by accumulating embedding
// similarity over the nearest genre-verified tracks and picking the genre
// with the highest total.
func (s *Service) SuggestGenre(ctx context.Context, trackID int64) (string, error) {
	emb, err := s.db.Tracks().GetEmbedding(ctx, trackID)
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrNoEmbedding
	}
	if err != nil {
		return "", fmt.Errorf("loading embedding: %w", err)
	}

	verified, vectors, err := s.db.Tracks().VerifiedWithEmbeddings(ctx)
	if err != nil {
		return "", fmt.Errorf("loading verified tracks: %w", err)
	}

	genres := make([]string, 0, len(verified))
	genreVectors := make([][]float64, 0, len(verified))
	for i, track := range verified {
		if track.ID == trackID || track.Genre == "" {
			continue
		}
		genres = append(genres, track.Genre)
		genreVectors = append(genreVectors, vectors[i])
	}
	if len(genres) == 0 {
		return "", ErrNoVerifiedTracks
	}

	return voteGenre(emb.Vector, genres, genreVectors, suggestGenreTopK), nil
}

// voteGenre scores each verified neighbor by cosine similarity, lets the topK
// nearest vote with their similarity as weight, and returns the genre with
// the highest accumulated score.
func voteGenre(target []float64, genres []string, vectors [][]float64, topK int) string {
	type neighbor struct {
		genre string
		sim   float64
	}

	neighbors := make([]neighbor, len(genres))
	for i := range genres {
		neighbors[i] = neighbor{genre: genres[i], sim: mix.Cosine(target, vectors[i])}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].sim > neighbors[j].sim
	})

	if topK > len(neighbors) {
		topK = len(neighbors)
	}

	scores := make(map[string]float64, topK)
	for _, n := range neighbors[:topK] {
		scores[n.genre] += n.sim
	}

	best := ""
	bestScore := 0.0
	for _, n := range neighbors[:topK] {
		// Iterate in ranked order so ties resolve to the nearest genre.
		if score := scores[n.genre]; best == "" || score > bestScore {
			best = n.genre
			bestScore = score
		}
	}
	return best
}
