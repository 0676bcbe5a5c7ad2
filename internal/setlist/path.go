package setlist

import (
	"math"

	"crossfade/internal/mix"
)

// Weighting of the three path-scoring terms: continuity from the previous
// pick, embedding pull toward the end node, and proximity to the per-slot
// interpolated BPM/energy targets.
const (
	pathMixWeight    = 1.5
	pathGoalWeight   = 1.0
	pathParamWeight  = 0.5
	pathBPMProximity = 0.01 // BPM deltas span a far larger range than energy's [0,1]
)

// BuildPath builds an ordered setlist of steps tracks whose first and last
// entries are the given endpoints, with the interior smoothly transitioning
// between them. Each intermediate slot targets BPM and energy linearly
// interpolated between the endpoints, and candidates are scored by a weighted
// sum of transition quality, similarity to the end node's embedding, and
// proximity to the slot targets. The end node is reserved up front so it is
// never picked as an intermediate step, and is appended unconditionally last.
// Pool exhaustion yields a shorter path that still ends with the end node.
func (b *Builder) BuildPath(pool []Candidate, start, end Candidate, steps int) []Track {
	chain := []Candidate{start}
	used := map[int64]bool{start.ID: true, end.ID: true}
	current := start

	intermediate := max(0, steps-2)

	for i := 0; i < intermediate; i++ {
		progress := float64(i+1) / float64(intermediate+1)

		targetBPM := start.Track.BPM + (end.Track.BPM-start.Track.BPM)*progress
		targetEnergy := start.Track.Energy + (end.Track.Energy-start.Track.Energy)*progress

		var best *Candidate
		bestScore := math.Inf(-1)
		for j := range pool {
			candidate := &pool[j]
			if used[candidate.ID] {
				continue
			}

			mixScore := transitionScore(current, *candidate)

			// Pull toward the goal. Cosine's native range is kept
			// unclamped here; it contributes 0 when either embedding
			// is absent.
			goalSim := mix.Cosine(candidate.Vector, end.Vector)

			paramScore := 0.0
			if candidate.Track.BPM > 0 {
				paramScore -= math.Abs(candidate.Track.BPM-targetBPM) * pathBPMProximity
			}
			paramScore -= math.Abs(candidate.Track.Energy - targetEnergy)

			total := mixScore*pathMixWeight + goalSim*pathGoalWeight + paramScore*pathParamWeight
			if total > bestScore {
				bestScore = total
				best = candidate
			}
		}

		if best == nil {
			break
		}
		chain = append(chain, *best)
		used[best.ID] = true
		current = *best
	}

	chain = append(chain, end)
	return tracks(chain)
}
