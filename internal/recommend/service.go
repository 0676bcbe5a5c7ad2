// Package recommend bridges the track library and the setlist builders: it
// retrieves candidate pools, ranks next-track recommendations, generates
// chain and path setlists, and suggests genres from embedding similarity.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"crossfade/internal/db"
	"crossfade/internal/setlist"
)

// Pool sizes per construction request. Path building draws from the widest
// pool because the interpolation targets sweep across the BPM range.
const (
	nextPoolLimit  = 200
	chainPoolLimit = 300
	pathPoolLimit  = 400
)

// VibeProducer turns a free-text prompt into target audio features. The LLM
// integration behind it lives outside this package; requests may also carry
// explicit vibe parameters and skip the producer entirely.
type VibeProducer interface {
	Vibe(ctx context.Context, prompt string) (setlist.Vibe, error)
}

// Service handles recommendation and setlist generation.
type Service struct {
	db    *db.DB
	vibes VibeProducer
	rng   *rand.Rand
}

// New creates a recommendation service. vibes may be nil when no prompt
// analysis backend is configured; rng may be nil for a time-seeded source.
func New(database *db.DB, vibes VibeProducer, rng *rand.Rand) *Service {
	return &Service{db: database, vibes: vibes, rng: rng}
}

// candidate loads a track and its embedding as a pool-shaped entry.
func (s *Service) candidate(ctx context.Context, trackID int64) (setlist.Candidate, error) {
	track, err := s.db.Tracks().Get(ctx, trackID)
	if err != nil {
		return setlist.Candidate{}, fmt.Errorf("loading track %d: %w", trackID, err)
	}

	var vector []float64
	emb, err := s.db.Tracks().GetEmbedding(ctx, trackID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return setlist.Candidate{}, fmt.Errorf("loading embedding for track %d: %w", trackID, err)
	}
	if emb != nil {
		vector = emb.Vector
	}

	return setlist.Candidate{ID: track.ID, Track: track.View(), Vector: vector}, nil
}

// NextTracks recommends tracks to play after the given one, ranked by
// mixability against it.
func (s *Service) NextTracks(ctx context.Context, trackID int64, limit int, genres []string) ([]setlist.Track, error) {
	target, err := s.candidate(ctx, trackID)
	if err != nil {
		return nil, err
	}

	pool, err := s.db.Candidates().FetchPool(ctx, db.PoolFilter{
		Vibe:       setlist.Vibe{"bpm": target.Track.BPM},
		Genres:     genres,
		ExcludeIDs: []int64{trackID},
		Limit:      nextPoolLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching candidate pool: %w", err)
	}

	return RankNext(target, pool, limit), nil
}

// ChainRequest describes an auto-generated setlist.
type ChainRequest struct {
	Vibe    setlist.Vibe // explicit targets; takes precedence over Prompt
	Prompt  string       // analyzed by the VibeProducer when Vibe is empty
	SeedIDs []int64      // tracks pinned to the start of the chain, in order
	Genres  []string
	Length  int
}

// GenerateChain builds an "infinite flow" setlist from a vibe and optional
// seed tracks.
func (s *Service) GenerateChain(ctx context.Context, req ChainRequest) ([]setlist.Track, error) {
	vibe := req.Vibe
	if len(vibe) == 0 && req.Prompt != "" && s.vibes != nil {
		produced, err := s.vibes.Vibe(ctx, req.Prompt)
		if err != nil {
			return nil, fmt.Errorf("analyzing prompt: %w", err)
		}
		vibe = produced
	}
	if vibe == nil {
		vibe = setlist.Vibe{}
	}

	seeds := make([]setlist.Candidate, 0, len(req.SeedIDs))
	for _, id := range req.SeedIDs {
		seed, err := s.candidate(ctx, id)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}

	pool, err := s.db.Candidates().FetchPool(ctx, db.PoolFilter{
		Vibe:       vibe,
		Genres:     req.Genres,
		ExcludeIDs: req.SeedIDs,
		Limit:      chainPoolLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching candidate pool: %w", err)
	}

	builder := setlist.New(s.rng)
	return builder.BuildChain(pool, seeds, req.Length, vibe), nil
}

// GeneratePath builds a setlist bridging two endpoint tracks.
func (s *Service) GeneratePath(ctx context.Context, startID, endID int64, length int, genres []string) ([]setlist.Track, error) {
	start, err := s.candidate(ctx, startID)
	if err != nil {
		return nil, err
	}
	end, err := s.candidate(ctx, endID)
	if err != nil {
		return nil, err
	}

	// Center the pool's BPM window between the endpoints.
	avgBPM := (start.Track.BPM + end.Track.BPM) / 2

	pool, err := s.db.Candidates().FetchPool(ctx, db.PoolFilter{
		Vibe:       setlist.Vibe{"bpm": avgBPM},
		Genres:     genres,
		ExcludeIDs: []int64{startID, endID},
		Limit:      pathPoolLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching candidate pool: %w", err)
	}

	builder := setlist.New(s.rng)
	return builder.BuildPath(pool, start, end, length), nil
}
