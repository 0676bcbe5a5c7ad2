package mix

import "math"

const (
	// defaultBPM substitutes for tracks whose tempo analysis is missing.
	defaultBPM = 120.0

	// bpmSigma is the standard deviation of the Gaussian tempo score.
	// A few percent of tempo mismatch is audibly jarring, so the curve
	// drops off sharply away from ratio 1.0.
	bpmSigma = 0.08
)

// Weights controls the relative influence of the three mixability sub-scores.
// The fields are expected to sum to 1.0 so the final score stays in [0, 1].
type Weights struct {
	BPM    float64
	Key    float64
	Vector float64
}

// DefaultWeights favors embedding similarity, used when ranking
// recommendations for a single target track.
func DefaultWeights() Weights {
	return Weights{BPM: 0.35, Key: 0.25, Vector: 0.4}
}

// TransitionWeights emphasizes beat-matching and harmonic compatibility over
// embedding similarity, used by the setlist builders when scoring the
// transition out of the current track.
func TransitionWeights() Weights {
	return Weights{BPM: 0.4, Key: 0.3, Vector: 0.3}
}

// Score computes a 0-1 mixability score for playing candidate after target.
// Non-positive tempos default to 120 BPM, tempo ratios outside [0.6, 1.8] are
// folded by halving or doubling (DJs routinely mix 70 BPM against 140 BPM),
// and negative vector similarity is clamped to 0. The function is total:
// unknown inputs degrade to neutral values, it never fails.
func Score(targetBPM float64, targetKey string, candidateBPM float64, candidateKey string, vectorSimilarity float64, w Weights) float64 {
	if targetBPM <= 0 {
		targetBPM = defaultBPM
	}
	if candidateBPM <= 0 {
		candidateBPM = defaultBPM
	}

	ratio := candidateBPM / targetBPM
	if ratio < 0.6 {
		ratio *= 2
	} else if ratio > 1.8 {
		ratio /= 2
	}
	bpmScore := math.Exp(-math.Pow(ratio-1, 2) / (2 * math.Pow(bpmSigma, 2)))

	keyScore := KeyScore(targetKey, candidateKey)

	vecScore := math.Max(0, math.Min(1, vectorSimilarity))

	return bpmScore*w.BPM + keyScore*w.Key + vecScore*w.Vector
}
