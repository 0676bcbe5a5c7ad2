package setlist

import (
	"math/rand"
	"testing"
)

func TestBuildPathEndpoints(t *testing.T) {
	start := candidate(1, 120, "8A", 0.3, []float64{1, 0})
	end := candidate(5, 140, "10A", 0.9, []float64{0, 1})
	pool := []Candidate{
		candidate(2, 125, "8A", 0.4, []float64{0.9, 0.1}),
		candidate(3, 130, "9A", 0.6, []float64{0.5, 0.5}),
		candidate(4, 135, "9A", 0.8, []float64{0.1, 0.9}),
	}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 4)

	if len(got) != 4 {
		t.Fatalf("got %d tracks, want 4", len(got))
	}
	if got[0].ID != start.ID {
		t.Errorf("path[0] = %d, want start %d", got[0].ID, start.ID)
	}
	if got[len(got)-1].ID != end.ID {
		t.Errorf("path[last] = %d, want end %d", got[len(got)-1].ID, end.ID)
	}
	assertNoDuplicates(t, got)

	poolIDs := map[int64]bool{2: true, 3: true, 4: true}
	for _, track := range got[1 : len(got)-1] {
		if !poolIDs[track.ID] {
			t.Errorf("intermediate %d not drawn from the pool", track.ID)
		}
	}
}

func TestBuildPathTwoSteps(t *testing.T) {
	start := candidate(1, 120, "8A", 0.3, nil)
	end := candidate(2, 124, "8A", 0.5, nil)
	pool := []Candidate{candidate(3, 122, "8A", 0.4, nil)}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 2)

	if len(got) != 2 {
		t.Fatalf("got %d tracks, want 2 (no intermediates)", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("got %v, want [1 2]", trackIDs(got))
	}
}

func TestBuildPathReservesEndNode(t *testing.T) {
	// The end node also sits in the pool; it must never be selected as an
	// intermediate even when it is the best-scoring candidate.
	start := candidate(1, 120, "8A", 0.5, nil)
	end := candidate(2, 120, "8A", 0.5, nil)
	pool := []Candidate{
		end,
		candidate(3, 150, "3B", 0.1, nil),
	}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 3)

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3", len(got))
	}
	if got[1].ID == end.ID {
		t.Errorf("end node %d selected as an intermediate", end.ID)
	}
	if got[2].ID != end.ID {
		t.Errorf("path[last] = %d, want end %d", got[2].ID, end.ID)
	}
}

func TestBuildPathExhaustion(t *testing.T) {
	// One usable intermediate but three requested: the path comes up short
	// and still closes with the end node.
	start := candidate(1, 120, "8A", 0.3, nil)
	end := candidate(2, 130, "9A", 0.7, nil)
	pool := []Candidate{candidate(3, 125, "8A", 0.5, nil)}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 5)

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3 (pool exhausted)", len(got))
	}
	if got[len(got)-1].ID != end.ID {
		t.Errorf("path[last] = %d, want end %d", got[len(got)-1].ID, end.ID)
	}
}

func TestBuildPathInterpolatesTowardEnd(t *testing.T) {
	// With one slot between a slow, mellow start and a fast, intense end,
	// the midpoint targets 130 BPM / 0.5 energy; the matching candidate
	// wins over the ones parked at either extreme.
	start := candidate(1, 120, "8A", 0.2, nil)
	end := candidate(2, 140, "8A", 0.8, nil)
	pool := []Candidate{
		candidate(3, 120, "8A", 0.2, nil),
		candidate(4, 130, "8A", 0.5, nil),
		candidate(5, 140, "8A", 0.8, nil),
	}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 3)

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3", len(got))
	}
	if got[1].ID != 4 {
		t.Errorf("intermediate = %d, want 4 (closest to interpolated targets)", got[1].ID)
	}
}

func TestBuildPathGoalSimilarityPull(t *testing.T) {
	// Transition and slot targets equal; the candidate whose embedding
	// points at the end node's must win.
	endVec := []float64{0, 1, 0}
	start := candidate(1, 120, "8A", 0.5, []float64{1, 0, 0})
	end := candidate(2, 120, "8A", 0.5, endVec)
	pool := []Candidate{
		candidate(3, 120, "8A", 0.5, []float64{1, 0, 0}),
		candidate(4, 120, "8A", 0.5, []float64{0, 1, 0}),
	}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 3)

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3", len(got))
	}
	if got[1].ID != 4 {
		t.Errorf("intermediate = %d, want 4 (embedding aligned with end)", got[1].ID)
	}
}

func TestBuildPathSkipsUnknownBPMPenalty(t *testing.T) {
	// A zero-BPM candidate takes no tempo-proximity penalty, only the
	// energy one, so with equal energies it outranks a far-off tempo.
	start := candidate(1, 120, "8A", 0.5, nil)
	end := candidate(2, 120, "8A", 0.5, nil)
	pool := []Candidate{
		candidate(3, 200, "8A", 0.5, nil),
		candidate(4, 0, "8A", 0.5, nil),
	}

	got := New(rand.New(rand.NewSource(1))).BuildPath(pool, start, end, 3)

	if len(got) != 3 {
		t.Fatalf("got %d tracks, want 3", len(got))
	}
	if got[1].ID != 4 {
		t.Errorf("intermediate = %d, want 4 (no tempo penalty for unknown BPM)", got[1].ID)
	}
}
