package battery

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func correlationStat(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

func TestPermutationReferee_DetectsRealEffect(t *testing.T) {
	pr := NewPermutationReferee(42)
	pr.SetShuffles(500)

	rng := rand.New(rand.NewSource(1))
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i) + rng.NormFloat64()*5
	}

	outcome, err := pr.Test(context.Background(), x, y, correlationStat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PValue > 0.01 {
		t.Errorf("strong correlation should survive permutation, p=%f", outcome.PValue)
	}
	if outcome.ObservedStat < 0.9 {
		t.Errorf("expected observed correlation near 1, got %f", outcome.ObservedStat)
	}
	if outcome.Shuffles != 500 {
		t.Errorf("expected 500 shuffles, got %d", outcome.Shuffles)
	}
	if outcome.Null.Max < outcome.Null.Mean {
		t.Error("null summary inconsistent: max below mean")
	}
}

func TestPermutationReferee_NullEffect(t *testing.T) {
	pr := NewPermutationReferee(42)
	pr.SetShuffles(500)

	rng := rand.New(rand.NewSource(2))
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.NormFloat64()
		y[i] = rng.NormFloat64()
	}

	outcome, err := pr.Test(context.Background(), x, y, correlationStat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PValue < 0.05 {
		t.Errorf("independent data should not look significant, p=%f", outcome.PValue)
	}
}

func TestPermutationReferee_Reproducible(t *testing.T) {
	run := func() float64 {
		pr := NewPermutationReferee(99)
		pr.SetShuffles(300)
		x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		y := []float64{2, 1, 4, 3, 6, 5, 8, 7}
		outcome, err := pr.Test(context.Background(), x, y, correlationStat)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return outcome.PValue
	}

	if run() != run() {
		t.Error("same seed should give identical p-values")
	}
}

func TestPermutationReferee_TestBlocks(t *testing.T) {
	pr := NewPermutationReferee(7)
	pr.SetShuffles(400)

	// Each block starts with a conspicuously large value: the first-position
	// mean is far above the block mean, which shuffling should destroy.
	blocks := make([][]float64, 40)
	for i := range blocks {
		blocks[i] = []float64{10, 1, 1, 1, 1}
	}

	firstPosMean := func(blocks [][]float64) float64 {
		sum := 0.0
		for _, b := range blocks {
			sum += b[0]
		}
		return sum / float64(len(blocks))
	}

	outcome, err := pr.TestBlocks(context.Background(), blocks, firstPosMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ObservedStat != 10 {
		t.Errorf("expected observed first-position mean of 10, got %f", outcome.ObservedStat)
	}
	if outcome.PValue > 0.01 {
		t.Errorf("positional concentration should be significant, p=%f", outcome.PValue)
	}
	// Null mean should approach the block mean (14/5 = 2.8)
	if math.Abs(outcome.Null.Mean-2.8) > 0.5 {
		t.Errorf("null mean should approach 2.8, got %f", outcome.Null.Mean)
	}
}

func TestPermutationReferee_ClampsShuffles(t *testing.T) {
	pr := NewPermutationReferee(0)
	pr.SetShuffles(1)
	if pr.Shuffles() != minShuffles {
		t.Errorf("expected clamp to %d, got %d", minShuffles, pr.Shuffles())
	}
	pr.SetShuffles(10_000_000)
	if pr.Shuffles() != maxShuffles {
		t.Errorf("expected clamp to %d, got %d", maxShuffles, pr.Shuffles())
	}
}

func TestPermutationReferee_RejectsBadInput(t *testing.T) {
	pr := NewPermutationReferee(0)
	if _, err := pr.Test(context.Background(), []float64{1, 2}, []float64{1}, correlationStat); err == nil {
		t.Error("expected error for mismatched vectors")
	}
	if _, err := pr.TestBlocks(context.Background(), nil, func([][]float64) float64 { return 0 }); err == nil {
		t.Error("expected error for empty block set")
	}
}

func TestPermutationReferee_HonorsContext(t *testing.T) {
	pr := NewPermutationReferee(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i)
	}
	if _, err := pr.Test(ctx, x, y, correlationStat); err == nil {
		t.Error("expected context cancellation error")
	}
}
