package recommend

import (
	"sort"

	"crossfade/internal/mix"
	"crossfade/internal/setlist"
)

// RankNext orders a candidate pool by mixability against a target track and
// returns the top limit tracks. The sort is stable, so candidates with equal
// scores keep their pool order.
func RankNext(target setlist.Candidate, pool []setlist.Candidate, limit int) []setlist.Track {
	type scored struct {
		candidate setlist.Candidate
		score     float64
	}

	ranked := make([]scored, len(pool))
	for i, candidate := range pool {
		ranked[i] = scored{
			candidate: candidate,
			score: mix.Score(
				target.Track.BPM, target.Track.Key,
				candidate.Track.BPM, candidate.Track.Key,
				mix.Cosine(target.Vector, candidate.Vector),
				mix.DefaultWeights(),
			),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	tracks := make([]setlist.Track, limit)
	for i := 0; i < limit; i++ {
		tracks[i] = ranked[i].candidate.Track
	}
	return tracks
}
