package recommend

import (
	"context"
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"crossfade/internal/db"
)

// MoodConfig holds mood-clustering parameters for bulk genre curation.
type MoodConfig struct {
	NumClusters  int // number of mood groups to form (default: 4)
	MinGroupSize int // smaller groups become outliers
	PoolLimit    int // how many unverified tracks to consider (default: 500)
}

// DefaultMoodConfig returns the recommended default configuration.
func DefaultMoodConfig() MoodConfig {
	return MoodConfig{
		NumClusters:  4,
		MinGroupSize: 3,
		PoolLimit:    500,
	}
}

// MoodGroup is a cluster of unverified tracks with similar audio character,
// presented together so a genre can be assigned to the whole group at once.
type MoodGroup struct {
	Name     string             // descriptive name: "Peak Time", "Deep & Mellow", ...
	Tracks   []db.Track         // tracks in this group
	Centroid map[string]float64 // average feature values for the group
}

// moodFeatures are the scalar audio features used for clustering. Loudness is
// rescaled from its [-60, 0] dB range into [0, 1] so it doesn't dominate the
// distance metric.
var moodFeatures = []string{"energy", "danceability", "brightness", "loudness"}

// trackObservation wraps a track to implement clusters.Observation.
type trackObservation struct {
	track  *db.Track
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

func moodCoordinates(t *db.Track) clusters.Coordinates {
	loudness := (t.Loudness + 60) / 60
	if loudness < 0 {
		loudness = 0
	} else if loudness > 1 {
		loudness = 1
	}
	return clusters.Coordinates{t.Energy, t.Danceability, t.Brightness, loudness}
}

// MoodGroups clusters the library's unverified tracks into mood groups for
// bulk genre curation. Returns the groups and the outlier tracks that didn't
// fit any group.
func (s *Service) MoodGroups(ctx context.Context, cfg MoodConfig) ([]MoodGroup, []db.Track, error) {
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultMoodConfig().NumClusters
	}
	if cfg.PoolLimit <= 0 {
		cfg.PoolLimit = DefaultMoodConfig().PoolLimit
	}

	tracks, err := s.db.Tracks().Unverified(ctx, cfg.PoolLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("loading unverified tracks: %w", err)
	}

	groups, outliers := DetectMoodGroups(tracks, cfg)
	return groups, outliers, nil
}

// DetectMoodGroups clusters tracks by audio feature similarity using k-means.
// Undersized clusters become outliers. With fewer tracks than clusters,
// everything is an outlier.
func DetectMoodGroups(tracks []db.Track, cfg MoodConfig) ([]MoodGroup, []db.Track) {
	if len(tracks) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultMoodConfig().NumClusters
	}

	if len(tracks) < cfg.NumClusters {
		return nil, tracks
	}

	var obs clusters.Observations
	for i := range tracks {
		obs = append(obs, trackObservation{
			track:  &tracks[i],
			coords: moodCoordinates(&tracks[i]),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		// On clustering failure, everything is an outlier.
		return nil, tracks
	}

	var groups []MoodGroup
	var outliers []db.Track

	for _, cluster := range result {
		var groupTracks []db.Track
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				groupTracks = append(groupTracks, *to.track)
			}
		}

		if len(groupTracks) < cfg.MinGroupSize {
			outliers = append(outliers, groupTracks...)
			continue
		}

		centroid := make(map[string]float64, len(moodFeatures))
		for i, name := range moodFeatures {
			centroid[name] = cluster.Center[i]
		}

		groups = append(groups, MoodGroup{
			Name:     moodGroupName(centroid),
			Tracks:   groupTracks,
			Centroid: centroid,
		})
	}

	return groups, outliers
}

// moodGroupName names a group from its energy/danceability quadrant, with a
// brightness modifier.
//
// Quadrants:
//   - High Energy + High Danceability = "Peak Time"
//   - High Energy + Low Danceability  = "Driving & Raw"
//   - Low Energy  + High Danceability = "Groovy & Laid Back"
//   - Low Energy  + Low Danceability  = "Deep & Mellow"
func moodGroupName(centroid map[string]float64) string {
	energy := centroid["energy"]
	danceability := centroid["danceability"]
	brightness := centroid["brightness"]

	var baseName string

	highEnergy := energy > 0.6
	highDance := danceability > 0.5

	switch {
	case highEnergy && highDance:
		baseName = "Peak Time"
	case highEnergy && !highDance:
		baseName = "Driving & Raw"
	case !highEnergy && highDance:
		baseName = "Groovy & Laid Back"
	default:
		baseName = "Deep & Mellow"
	}

	if brightness > 0.6 {
		return baseName + " (Bright)"
	}

	return baseName
}
