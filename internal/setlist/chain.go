package setlist

import (
	"math"
	"math/rand"
	"slices"
	"sort"
	"time"

	"crossfade/internal/mix"
)

const (
	// startPoolSize bounds the random start-node choice to the best few
	// vibe matches, preserving variety across repeated generations.
	startPoolSize = 10

	// energyBiasWeight scales the vibe energy-proximity penalty applied on
	// top of the transition score during chain building.
	energyBiasWeight = 0.1
)

// Builder assembles setlists from candidate pools. It holds no state between
// calls beyond its random source; construct one per request.
type Builder struct {
	rng *rand.Rand
}

// New returns a Builder using the given random source for start-node
// selection. A nil rng is replaced with a time-seeded one; tests inject a
// fixed seed for deterministic start picks.
func New(rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{rng: rng}
}

// BuildChain greedily assembles an ordered setlist of up to targetLength
// tracks. Seeds are placed first in the order given; without seeds a start
// node is drawn at random from the pool's best vibe matches. Each following
// track is the unused candidate with the highest transition score from the
// current one, biased toward the vibe's target energy. Pool exhaustion ends
// the chain early with a valid partial result.
func (b *Builder) BuildChain(pool, seeds []Candidate, targetLength int, vibe Vibe) []Track {
	if len(pool) == 0 && len(seeds) == 0 {
		return nil
	}

	chain := make([]Candidate, 0, targetLength)
	used := make(map[int64]bool, targetLength)

	for _, s := range seeds {
		chain = append(chain, s)
		used[s.ID] = true
	}

	if len(chain) == 0 {
		start := b.pickStart(pool, vibe)
		chain = append(chain, start)
		used[start.ID] = true
	}

	for len(chain) < targetLength {
		current := chain[len(chain)-1]

		var best *Candidate
		bestScore := math.Inf(-1)
		for i := range pool {
			candidate := &pool[i]
			if used[candidate.ID] {
				continue
			}

			score := transitionScore(current, *candidate)
			if target, ok := vibe["energy"]; ok {
				score -= math.Abs(candidate.Track.Energy-target) * energyBiasWeight
			}

			// Strict > keeps the first pool entry on equal scores.
			if score > bestScore {
				bestScore = score
				best = candidate
			}
		}

		if best == nil {
			break
		}
		chain = append(chain, *best)
		used[best.ID] = true
	}

	return tracks(chain)
}

// pickStart ranks the pool by proximity to the vibe's target energy and
// draws uniformly among the top entries. The caller's pool order is left
// untouched; ranking happens on a copy.
func (b *Builder) pickStart(pool []Candidate, vibe Vibe) Candidate {
	ranked := slices.Clone(pool)
	if target, ok := vibe["energy"]; ok {
		sort.SliceStable(ranked, func(i, j int) bool {
			return math.Abs(ranked[i].Track.Energy-target) < math.Abs(ranked[j].Track.Energy-target)
		})
	}

	top := min(startPoolSize, len(ranked))
	return ranked[b.rng.Intn(top)]
}

// transitionScore rates how well candidate follows current, weighting tempo
// and key over embedding similarity.
func transitionScore(current, candidate Candidate) float64 {
	return mix.Score(
		current.Track.BPM, current.Track.Key,
		candidate.Track.BPM, candidate.Track.Key,
		mix.Cosine(current.Vector, candidate.Vector),
		mix.TransitionWeights(),
	)
}

func tracks(chain []Candidate) []Track {
	out := make([]Track, len(chain))
	for i, c := range chain {
		out[i] = c.Track
	}
	return out
}
