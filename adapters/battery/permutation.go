// Package battery implements shuffle-based null models: a statistic is
// recomputed under random permutations of the data and the observed value is
// judged against the resulting null distribution.
package battery

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"voynstat/domain/verdict"
)

const (
	defaultShuffles = 1000
	minShuffles     = 200
	maxShuffles     = 100000
)

// Statistic computes the observed statistic over two parallel vectors.
type Statistic func(x, y []float64) float64

// BlockStatistic computes a statistic over a set of ordered blocks
// (typically the token sequences of transcription lines).
type BlockStatistic func(blocks [][]float64) float64

// Outcome is the result of one permutation test.
type Outcome struct {
	ObservedStat float64                         `json:"observed_stat"`
	PValue       float64                         `json:"p_value"`
	Shuffles     int                             `json:"shuffles"`
	Null         verdict.NullDistributionSummary `json:"null"`
}

// PermutationReferee runs seeded permutation tests with a clamped shuffle
// count. Each test derives its own generator from the seed, so results are
// reproducible even when probes run concurrently.
type PermutationReferee struct {
	shuffles int
	seed     int64
}

// NewPermutationReferee creates a referee with the default shuffle count.
func NewPermutationReferee(seed int64) *PermutationReferee {
	return &PermutationReferee{
		shuffles: defaultShuffles,
		seed:     seed,
	}
}

// SetShuffles configures the number of shuffles, clamped to a sane range.
func (pr *PermutationReferee) SetShuffles(n int) {
	if n < minShuffles {
		n = minShuffles
	}
	if n > maxShuffles {
		n = maxShuffles
	}
	pr.shuffles = n
}

// Shuffles returns the configured shuffle count.
func (pr *PermutationReferee) Shuffles() int {
	return pr.shuffles
}

// Test shuffles y against a fixed x and reports where |observed| falls in
// the null distribution of |statistic|.
func (pr *PermutationReferee) Test(ctx context.Context, x, y []float64, stat Statistic) (*Outcome, error) {
	if len(x) != len(y) || len(x) == 0 {
		return nil, fmt.Errorf("permutation test needs parallel non-empty vectors, got %d and %d", len(x), len(y))
	}

	rng := rand.New(rand.NewSource(pr.seed))
	observed := stat(x, y)
	shuffled := append([]float64(nil), y...)
	null := make([]float64, 0, pr.shuffles)

	exceed := 0
	for i := 0; i < pr.shuffles; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		s := stat(x, shuffled)
		null = append(null, math.Abs(s))
		if math.Abs(s) >= math.Abs(observed) {
			exceed++
		}
	}

	return pr.outcome(observed, null, exceed), nil
}

// TestBlocks shuffles values within each block independently, preserving
// block membership and size. This is the null model for positional claims:
// "what if each line held the same words in random order?"
func (pr *PermutationReferee) TestBlocks(ctx context.Context, blocks [][]float64, stat BlockStatistic) (*Outcome, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("permutation test needs at least one block")
	}

	rng := rand.New(rand.NewSource(pr.seed))
	observed := stat(blocks)

	shuffledBlocks := make([][]float64, len(blocks))
	for i, b := range blocks {
		shuffledBlocks[i] = append([]float64(nil), b...)
	}

	null := make([]float64, 0, pr.shuffles)
	exceed := 0
	for i := 0; i < pr.shuffles; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, b := range shuffledBlocks {
			rng.Shuffle(len(b), func(a, c int) {
				b[a], b[c] = b[c], b[a]
			})
		}
		s := stat(shuffledBlocks)
		null = append(null, math.Abs(s))
		if math.Abs(s) >= math.Abs(observed) {
			exceed++
		}
	}

	return pr.outcome(observed, null, exceed), nil
}

// outcome assembles the empirical p-value and null summary. The +1 in both
// numerator and denominator keeps the p-value away from an impossible zero.
func (pr *PermutationReferee) outcome(observed float64, null []float64, exceed int) *Outcome {
	return &Outcome{
		ObservedStat: observed,
		PValue:       float64(exceed+1) / float64(len(null)+1),
		Shuffles:     len(null),
		Null:         summarizeNull(null),
	}
}

func summarizeNull(null []float64) verdict.NullDistributionSummary {
	mean, _ := stats.Mean(null)
	sd, _ := stats.StandardDeviation(null)
	min, _ := stats.Min(null)
	max, _ := stats.Max(null)
	p95, _ := stats.Percentile(null, 95)
	p99, _ := stats.Percentile(null, 99)
	return verdict.NullDistributionSummary{
		Mean:         mean,
		StdDev:       sd,
		Min:          min,
		Max:          max,
		Percentile95: p95,
		Percentile99: p99,
	}
}
