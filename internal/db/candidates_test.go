package db

import (
	"strings"
	"testing"

	"crossfade/internal/setlist"
)

func TestBuildPoolQueryEmptyFilter(t *testing.T) {
	query, args := buildPoolQuery(PoolFilter{})

	if !strings.Contains(query, "ORDER BY t.created_at DESC") {
		t.Errorf("unfiltered query should order by recency:\n%s", query)
	}
	if strings.Contains(query, "BETWEEN") {
		t.Errorf("unfiltered query should carry no range clauses:\n%s", query)
	}
	if len(args) != 1 {
		t.Fatalf("got %d args, want 1 (default limit)", len(args))
	}
	if args[0] != 200 {
		t.Errorf("default limit = %v, want 200", args[0])
	}
}

func TestBuildPoolQueryFullFilter(t *testing.T) {
	query, args := buildPoolQuery(PoolFilter{
		Vibe:       setlist.Vibe{"bpm": 120, "energy": 0.5, "danceability": 0.7},
		Genres:     []string{"techno", "house"},
		ExcludeIDs: []int64{1, 2, 3},
		Limit:      50,
	})

	for _, clause := range []string{
		"t.id != ALL($1)",
		"t.genre = ANY($2)",
		"t.bpm BETWEEN $3 AND $4 OR t.bpm = 0",
		"t.energy BETWEEN $5 AND $6",
		"ORDER BY (ABS(t.energy - $7) + ABS(t.danceability - $8)) ASC",
		"LIMIT $9",
	} {
		if !strings.Contains(query, clause) {
			t.Errorf("query missing %q:\n%s", clause, query)
		}
	}

	if len(args) != 9 {
		t.Fatalf("got %d args, want 9", len(args))
	}

	// BPM window is 0.6x to 1.4x the target; the 1.4x keeps double-time
	// candidates in the pool.
	if args[2] != 120*bpmWindowLow || args[3] != 120*bpmWindowHigh {
		t.Errorf("bpm window = [%v, %v], want [72, 168]", args[2], args[3])
	}
	if args[8] != 50 {
		t.Errorf("limit arg = %v, want 50", args[8])
	}
}

func TestBuildPoolQueryEnergyWindowClamped(t *testing.T) {
	_, args := buildPoolQuery(PoolFilter{Vibe: setlist.Vibe{"energy": 0.9}})

	// args: energy low, energy high, proximity target, limit
	if len(args) != 4 {
		t.Fatalf("got %d args, want 4", len(args))
	}
	if low, high := args[0], args[1]; low != 0.9-energyWindow || high != 1.0 {
		t.Errorf("energy window = [%v, %v], want [0.6, 1] (clamped)", low, high)
	}

	_, args = buildPoolQuery(PoolFilter{Vibe: setlist.Vibe{"energy": 0.1}})
	if low := args[0]; low != 0.0 {
		t.Errorf("energy low bound = %v, want 0 (clamped)", low)
	}
}

func TestBuildPoolQueryIgnoresUnknownBPMTarget(t *testing.T) {
	query, args := buildPoolQuery(PoolFilter{Vibe: setlist.Vibe{"bpm": 0}})

	if strings.Contains(query, "t.bpm BETWEEN") {
		t.Errorf("zero bpm target should add no tempo clause:\n%s", query)
	}
	if len(args) != 1 {
		t.Errorf("got %d args, want 1", len(args))
	}
}
