package recommend

import (
	"testing"

	"crossfade/internal/setlist"
)

func candidate(id int64, bpm float64, key string, vector []float64) setlist.Candidate {
	return setlist.Candidate{
		ID: id,
		Track: setlist.Track{
			ID:  id,
			BPM: bpm,
			Key: key,
		},
		Vector: vector,
	}
}

func TestRankNextOrdersByMixability(t *testing.T) {
	target := candidate(1, 120, "8A", nil)
	pool := []setlist.Candidate{
		candidate(2, 180, "3B", nil), // far tempo, clashing key
		candidate(3, 120, "8A", nil), // exact match
		candidate(4, 123, "9A", nil), // close tempo, adjacent key
	}

	got := RankNext(target, pool, 3)

	want := []int64{3, 4, 2}
	if len(got) != len(want) {
		t.Fatalf("got %d tracks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("rank[%d] = %d, want %d", i, got[i].ID, want[i])
		}
	}
}

func TestRankNextLimit(t *testing.T) {
	target := candidate(1, 120, "8A", nil)
	pool := []setlist.Candidate{
		candidate(2, 120, "8A", nil),
		candidate(3, 121, "8A", nil),
		candidate(4, 122, "8A", nil),
	}

	if got := RankNext(target, pool, 2); len(got) != 2 {
		t.Errorf("got %d tracks, want 2", len(got))
	}

	// A limit beyond the pool size clamps to the pool.
	if got := RankNext(target, pool, 50); len(got) != 3 {
		t.Errorf("got %d tracks, want 3", len(got))
	}

	if got := RankNext(target, nil, 10); len(got) != 0 {
		t.Errorf("got %d tracks from empty pool, want 0", len(got))
	}
}

func TestRankNextStableOnTies(t *testing.T) {
	target := candidate(1, 120, "8A", nil)
	pool := []setlist.Candidate{
		candidate(5, 124, "9A", nil),
		candidate(6, 124, "9A", nil),
		candidate(7, 124, "9A", nil),
	}

	got := RankNext(target, pool, 3)

	want := []int64{5, 6, 7}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("rank[%d] = %d, want %d (ties keep pool order)", i, got[i].ID, want[i])
		}
	}
}
