package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// trackColumns is the column list shared by every track SELECT.
const trackColumns = `id, filepath, title, artist, album, genre, subgenre, year,
	bpm, key, scale, duration, energy, danceability, loudness, brightness,
	is_genre_verified, created_at`

// TrackRepository handles track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

func scanTrack(row pgx.Row, track *Track) error {
	return row.Scan(
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
	)
}

// Get retrieves a track by ID.
func (r *TrackRepository) Get(ctx context.Context, id int64) (*Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = $1`

	var track Track
	err := scanTrack(r.pool.QueryRow(ctx, query, id), &track)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying track: %w", err)
	}
	return &track, nil
}

// List retrieves tracks ordered by creation time desc.
func (r *TrackRepository) List(ctx context.Context, limit, offset int) ([]Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		if err := scanTrack(rows, &track); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// GetByIDs retrieves tracks for the given IDs, preserving the input order.
// IDs with no matching track are skipped.
func (r *TrackRepository) GetByIDs(ctx context.Context, ids []int64) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("querying tracks by IDs: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]Track, len(ids))
	for rows.Next() {
		var track Track
		if err := scanTrack(rows, &track); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		byID[track.ID] = track
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(ids))
	for _, id := range ids {
		if track, ok := byID[id]; ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// GetEmbedding retrieves a track's feature embedding. Returns ErrNotFound if
// the track has not been analyzed.
func (r *TrackRepository) GetEmbedding(ctx context.Context, trackID int64) (*Embedding, error) {
	query := `
		SELECT track_id, model_name, embedding, updated_at
		FROM track_embeddings
		WHERE track_id = $1
	`
	var emb Embedding
	err := r.pool.QueryRow(ctx, query, trackID).Scan(
		&emb.TrackID,
		&emb.ModelName,
		&emb.Vector,
		&emb.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying embedding: %w", err)
	}
	return &emb, nil
}

// SetGenre updates a track's genre and marks it as verified by the user.
func (r *TrackRepository) SetGenre(ctx context.Context, trackID int64, genre string) error {
	query := `
		UPDATE tracks
		SET genre = $2, is_genre_verified = TRUE
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, trackID, genre)
	if err != nil {
		return fmt.Errorf("updating track genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifiedWithEmbeddings retrieves all genre-verified tracks that carry an
// embedding, for similarity-based genre suggestion.
func (r *TrackRepository) VerifiedWithEmbeddings(ctx context.Context) ([]Track, [][]float64, error) {
	query := `
		SELECT ` + trackColumns + `, te.embedding
		FROM tracks t
		JOIN track_embeddings te ON te.track_id = t.id
		WHERE t.is_genre_verified = TRUE
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("querying verified tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	var vectors [][]float64
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
			return nil, nil, fmt.Errorf("scanning verified track: %w", err)
		}
		tracks = append(tracks, track)
		vectors = append(vectors, vector)
	}
	return tracks, vectors, rows.Err()
}

// Unverified retrieves tracks whose genre has not been confirmed, for mood
// based curation.
func (r *TrackRepository) Unverified(ctx context.Context, limit int) ([]Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE is_genre_verified = FALSE ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unverified tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		if err := scanTrack(rows, &track); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}
