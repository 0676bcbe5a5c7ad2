package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetlistRepository handles setlist database operations.
type SetlistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new, empty setlist.
func (r *SetlistRepository) Create(ctx context.Context, name string) (*Setlist, error) {
	setlist := Setlist{
		ID:   uuid.New(),
		Name: name,
	}

	query := `
		INSERT INTO setlists (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, setlist.ID, setlist.Name).Scan(
		&setlist.CreatedAt,
		&setlist.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting setlist: %w", err)
	}
	return &setlist, nil
}

// Get retrieves a setlist by ID.
func (r *SetlistRepository) Get(ctx context.Context, id uuid.UUID) (*Setlist, error) {
	query := `SELECT id, name, created_at, updated_at FROM setlists WHERE id = $1`

	var setlist Setlist
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&setlist.ID,
		&setlist.Name,
		&setlist.CreatedAt,
		&setlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying setlist: %w", err)
	}
	return &setlist, nil
}

// List retrieves all setlists, most recently updated first.
func (r *SetlistRepository) List(ctx context.Context) ([]Setlist, error) {
	query := `SELECT id, name, created_at, updated_at FROM setlists ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying setlists: %w", err)
	}
	defer rows.Close()

	var setlists []Setlist
	for rows.Next() {
		var setlist Setlist
		if err := rows.Scan(
			&setlist.ID,
			&setlist.Name,
			&setlist.CreatedAt,
			&setlist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning setlist: %w", err)
		}
		setlists = append(setlists, setlist)
	}
	return setlists, rows.Err()
}

// Rename updates a setlist's name.
func (r *SetlistRepository) Rename(ctx context.Context, id uuid.UUID, name string) (*Setlist, error) {
	query := `
		UPDATE setlists
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at
	`
	var setlist Setlist
	err := r.pool.QueryRow(ctx, query, id, name).Scan(
		&setlist.ID,
		&setlist.Name,
		&setlist.CreatedAt,
		&setlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("renaming setlist: %w", err)
	}
	return &setlist, nil
}

// Delete removes a setlist and its track links.
func (r *SetlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM setlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting setlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTracks retrieves a setlist's tracks in position order.
func (r *SetlistRepository) GetTracks(ctx context.Context, id uuid.UUID) ([]Track, error) {
	query := `
		SELECT t.id, t.filepath, t.title, t.artist, t.album, t.genre, t.subgenre,
			t.year, t.bpm, t.key, t.scale, t.duration, t.energy, t.danceability,
			t.loudness, t.brightness, t.is_genre_verified, t.created_at
		FROM setlist_tracks st
		JOIN tracks t ON t.id = st.track_id
		WHERE st.setlist_id = $1
		ORDER BY st.position
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying setlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		if err := scanTrack(rows, &track); err != nil {
			return nil, fmt.Errorf("scanning setlist track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// ReplaceTracks replaces a setlist's track sequence with the given IDs,
// assigning positions from the slice order.
func (r *SetlistRepository) ReplaceTracks(ctx context.Context, id uuid.UUID, trackIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE setlists SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching setlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM setlist_tracks WHERE setlist_id = $1`, id); err != nil {
		return fmt.Errorf("clearing setlist tracks: %w", err)
	}

	if len(trackIDs) > 0 {
		positions := make([]int, len(trackIDs))
		for i := range trackIDs {
			positions[i] = i
		}

		query := `
			INSERT INTO setlist_tracks (setlist_id, track_id, position)
			SELECT $1, * FROM unnest($2::bigint[], $3::int[])
		`
		if _, err := tx.Exec(ctx, query, id, trackIDs, positions); err != nil {
			return fmt.Errorf("inserting setlist tracks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
