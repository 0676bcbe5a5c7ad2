package setlist

import (
	"math"
	"math/rand"
	"testing"
)

func candidate(id int64, bpm float64, key string, energy float64, vector []float64) Candidate {
	return Candidate{
		ID: id,
		Track: Track{
			ID:     id,
			BPM:    bpm,
			Key:    key,
			Energy: energy,
		},
		Vector: vector,
	}
}

func trackIDs(tracks []Track) []int64 {
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func assertNoDuplicates(t *testing.T, tracks []Track) {
	t.Helper()
	seen := make(map[int64]bool)
	for _, track := range tracks {
		if seen[track.ID] {
			t.Errorf("track %d selected twice", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestBuildChainGreedyPicksCloserTransition(t *testing.T) {
	// From a 120 BPM / 8A seed, the near-identical candidate must beat the
	// harmonically and rhythmically distant one.
	pool := []Candidate{
		candidate(2, 121, "8A", 0.5, nil),
		candidate(3, 180, "3B", 0.5, nil),
	}
	seeds := []Candidate{candidate(1, 120, "8A", 0.5, nil)}

	got := New(rand.New(rand.NewSource(1))).BuildChain(pool, seeds, 2, Vibe{})

	want := []int64{1, 2}
	ids := trackIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %d tracks, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("chain[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestBuildChainEmptyInputs(t *testing.T) {
	got := New(rand.New(rand.NewSource(1))).BuildChain(nil, nil, 5, Vibe{})
	if len(got) != 0 {
		t.Errorf("got %d tracks from empty inputs, want 0", len(got))
	}
}

func TestBuildChainTargetAtOrBelowSeeds(t *testing.T) {
	pool := []Candidate{candidate(10, 128, "5A", 0.7, nil)}
	seeds := []Candidate{
		candidate(1, 120, "8A", 0.5, nil),
		candidate(2, 122, "8A", 0.5, nil),
	}

	tests := []struct {
		name   string
		target int
	}{
		{name: "target equals seed count", target: 2},
		{name: "target below seed count", target: 1},
		{name: "zero target", target: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(rand.New(rand.NewSource(1))).BuildChain(pool, seeds, tt.target, Vibe{})
			ids := trackIDs(got)
			if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
				t.Errorf("got %v, want seeds [1 2] untouched", ids)
			}
		})
	}
}

func TestBuildChainExhaustion(t *testing.T) {
	// Three pool tracks, no seeds, target five: one start pick plus two
	// greedy picks is a valid short result, not an error.
	pool := []Candidate{
		candidate(1, 120, "8A", 0.5, nil),
		candidate(2, 122, "8A", 0.5, nil),
		candidate(3, 124, "9A", 0.5, nil),
	}

	got := New(rand.New(rand.NewSource(7))).BuildChain(pool, nil, 5, Vibe{})

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3 (pool exhausted)", len(got))
	}
	assertNoDuplicates(t, got)
}

func TestBuildChainDrawsFromPool(t *testing.T) {
	pool := make([]Candidate, 0, 20)
	for i := int64(1); i <= 20; i++ {
		pool = append(pool, candidate(i, 118+float64(i), "8A", float64(i)*0.05, nil))
	}
	seeds := []Candidate{candidate(100, 120, "8A", 0.5, nil)}

	got := New(rand.New(rand.NewSource(3))).BuildChain(pool, seeds, 8, Vibe{"energy": 0.5})

	if len(got) != 8 {
		t.Fatalf("got %d tracks, want 8", len(got))
	}
	assertNoDuplicates(t, got)

	poolIDs := make(map[int64]bool, len(pool))
	for _, c := range pool {
		poolIDs[c.ID] = true
	}
	for i, track := range got {
		if i == 0 {
			if track.ID != 100 {
				t.Errorf("chain[0] = %d, want seed 100", track.ID)
			}
			continue
		}
		if !poolIDs[track.ID] {
			t.Errorf("chain[%d] = %d, not drawn from the pool", i, track.ID)
		}
	}
}

func TestBuildChainStartNodeFromTopEnergyMatches(t *testing.T) {
	// Without seeds, the start node comes from the ten candidates closest
	// to the vibe's target energy, whatever the random draw.
	pool := make([]Candidate, 0, 30)
	for i := int64(1); i <= 30; i++ {
		// Energy climbs with the ID, so with a 0.0 target the ten
		// closest are IDs 1..10.
		pool = append(pool, candidate(i, 120, "8A", float64(i)/30, nil))
	}

	for seed := int64(0); seed < 20; seed++ {
		got := New(rand.New(rand.NewSource(seed))).BuildChain(pool, nil, 1, Vibe{"energy": 0.0})
		if len(got) != 1 {
			t.Fatalf("got %d tracks, want 1", len(got))
		}
		if got[0].ID > 10 {
			t.Errorf("seed %d: start node %d outside the top 10 energy matches", seed, got[0].ID)
		}
	}
}

func TestBuildChainDoesNotReorderPool(t *testing.T) {
	pool := []Candidate{
		candidate(1, 120, "8A", 0.9, nil),
		candidate(2, 121, "8A", 0.1, nil),
		candidate(3, 122, "8A", 0.5, nil),
	}

	New(rand.New(rand.NewSource(1))).BuildChain(pool, nil, 3, Vibe{"energy": 0.5})

	for i, wantID := range []int64{1, 2, 3} {
		if pool[i].ID != wantID {
			t.Fatalf("pool reordered: pool[%d].ID = %d, want %d", i, pool[i].ID, wantID)
		}
	}
}

func TestBuildChainEnergyBias(t *testing.T) {
	// Two transition-equivalent candidates; the one nearer the target
	// energy must win.
	pool := []Candidate{
		candidate(2, 120, "8A", 0.9, nil),
		candidate(3, 120, "8A", 0.5, nil),
	}
	seeds := []Candidate{candidate(1, 120, "8A", 0.5, nil)}

	got := New(rand.New(rand.NewSource(1))).BuildChain(pool, seeds, 2, Vibe{"energy": 0.5})

	ids := trackIDs(got)
	if len(ids) != 2 || ids[1] != 3 {
		t.Errorf("got %v, want [1 3] (energy bias toward 0.5)", ids)
	}
}

func TestBuildChainTieBreakKeepsPoolOrder(t *testing.T) {
	// Identical candidates: the first in pool order wins the tie.
	pool := []Candidate{
		candidate(2, 124, "9A", 0.5, nil),
		candidate(3, 124, "9A", 0.5, nil),
	}
	seeds := []Candidate{candidate(1, 124, "9A", 0.5, nil)}

	got := New(rand.New(rand.NewSource(1))).BuildChain(pool, seeds, 2, Vibe{})

	ids := trackIDs(got)
	if len(ids) != 2 || ids[1] != 2 {
		t.Errorf("got %v, want [1 2] (first pool entry wins ties)", ids)
	}
}

func TestBuildChainVectorSimilarityInfluence(t *testing.T) {
	seedVec := []float64{1, 0, 0}
	pool := []Candidate{
		candidate(2, 120, "8A", 0.5, []float64{0, 1, 0}),
		candidate(3, 120, "8A", 0.5, []float64{0.99, 0.1, 0}),
	}
	seeds := []Candidate{candidate(1, 120, "8A", 0.5, seedVec)}

	got := New(rand.New(rand.NewSource(1))).BuildChain(pool, seeds, 2, Vibe{})

	ids := trackIDs(got)
	if len(ids) != 2 || ids[1] != 3 {
		t.Errorf("got %v, want [1 3] (embedding similarity favored)", ids)
	}
}

func TestBuildChainNeverExceedsTarget(t *testing.T) {
	pool := make([]Candidate, 0, 50)
	for i := int64(1); i <= 50; i++ {
		pool = append(pool, candidate(i, 100+float64(i), "4B", math.Mod(float64(i)*0.13, 1), nil))
	}

	got := New(rand.New(rand.NewSource(11))).BuildChain(pool, nil, 12, Vibe{"energy": 0.6})

	if len(got) != 12 {
		t.Errorf("got %d tracks, want exactly 12 (pool is large enough)", len(got))
	}
	assertNoDuplicates(t, got)
}
