package db

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"crossfade/internal/setlist"
)

const (
	// bpmWindowLow/High bound the candidate BPM window around the vibe's
	// target tempo. The wide high bound keeps double-time matches in the
	// pool; the scorer folds them back for comparison.
	bpmWindowLow  = 0.6
	bpmWindowHigh = 1.4

	// energyWindow is the half-width of the energy filter around the
	// vibe's target energy.
	energyWindow = 0.3
)

// PoolFilter describes one candidate-pool request. Zero values mean "no
// filter on that dimension".
type PoolFilter struct {
	Vibe       setlist.Vibe
	Genres     []string
	ExcludeIDs []int64
	Limit      int
}

// CandidateRepository retrieves bounded candidate pools for the setlist
// builders, pushing the cheap filtering and vibe-proximity ordering down
// into SQL.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// buildPoolQuery constructs the pool query for a filter. Split out from
// FetchPool so the generated SQL is testable without a database.
func buildPoolQuery(f PoolFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.filepath, t.title, t.artist, t.album, t.genre, t.subgenre,
			t.year, t.bpm, t.key, t.scale, t.duration, t.energy, t.danceability,
			t.loudness, t.brightness, t.is_genre_verified, t.created_at,
			te.embedding
		FROM tracks t
		LEFT JOIN track_embeddings te ON te.track_id = t.id
		WHERE 1=1`)

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.ExcludeIDs) > 0 {
		sb.WriteString(" AND t.id != ALL(" + arg(f.ExcludeIDs) + ")")
	}

	if len(f.Genres) > 0 {
		sb.WriteString(" AND t.genre = ANY(" + arg(f.Genres) + ")")
	}

	// Tracks with unknown BPM stay in the pool; the scorer substitutes a
	// default for them.
	if target, ok := f.Vibe["bpm"]; ok && target > 0 {
		sb.WriteString(" AND (t.bpm BETWEEN " + arg(target*bpmWindowLow) +
			" AND " + arg(target*bpmWindowHigh) + " OR t.bpm = 0)")
	}

	var proximity []string
	if target, ok := f.Vibe["energy"]; ok {
		sb.WriteString(" AND t.energy BETWEEN " + arg(math.Max(0, target-energyWindow)) +
			" AND " + arg(math.Min(1, target+energyWindow)))
		proximity = append(proximity, "ABS(t.energy - "+arg(target)+")")
	}
	if target, ok := f.Vibe["danceability"]; ok {
		proximity = append(proximity, "ABS(t.danceability - "+arg(target)+")")
	}

	if len(proximity) > 0 {
		sb.WriteString(" ORDER BY (" + strings.Join(proximity, " + ") + ") ASC")
	} else {
		sb.WriteString(" ORDER BY t.created_at DESC")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	sb.WriteString(" LIMIT " + arg(limit))

	return sb.String(), args
}

// FetchPool retrieves a candidate pool matching the filter. Each entry
// carries the track snapshot and its embedding (nil when unanalyzed). IDs are
// unique within the returned pool.
func (r *CandidateRepository) FetchPool(ctx context.Context, f PoolFilter) ([]setlist.Candidate, error) {
	query, args := buildPoolQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidate pool: %w", err)
	}
	defer rows.Close()

	var candidates []setlist.Candidate
	for rows.Next() {
		var track Track
		var vector []float64
		if err := rows.Scan(
			&track.ID,
			&track.Filepath,
			&track.Title,
			&track.Artist,
			&track.Album,
			&track.Genre,
			&track.Subgenre,
			&track.Year,
			&track.BPM,
			&track.Key,
			&track.Scale,
			&track.Duration,
			&track.Energy,
			&track.Danceability,
			&track.Loudness,
			&track.Brightness,
			&track.IsGenreVerified,
			&track.CreatedAt,
			&vector,
		); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, setlist.Candidate{
			ID:     track.ID,
			Track:  track.View(),
			Vector: vector,
		})
	}
	return candidates, rows.Err()
}
