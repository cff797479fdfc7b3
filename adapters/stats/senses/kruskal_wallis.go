package senses

import (
	"context"
	"fmt"
	"math"
)

// KruskalWallisSense compares three or more independent groups by rank.
// Through the sense interface it degrades to a two-group comparison; the
// battery calls KruskalWallis directly for multi-group contrasts.
type KruskalWallisSense struct{}

// NewKruskalWallisSense creates a new Kruskal-Wallis sense
func NewKruskalWallisSense() *KruskalWallisSense {
	return &KruskalWallisSense{}
}

// Name returns the sense name
func (s *KruskalWallisSense) Name() string {
	return "kruskal_wallis"
}

// Description returns a human-readable description
func (s *KruskalWallisSense) Description() string {
	return "Compares the distributions of multiple independent groups by rank"
}

// RequiresPairs indicates x and y are independent groups, not pairs
func (s *KruskalWallisSense) RequiresPairs() bool {
	return false
}

// Analyze runs the test on the two groups x and y
func (s *KruskalWallisSense) Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult {
	if len(x) < 5 || len(y) < 5 {
		return insufficientResult(s.Name(), "Insufficient data for Kruskal-Wallis analysis")
	}

	h, pValue, df := KruskalWallis([][]float64{x, y})
	epsilonSq := EpsilonSquared(h, len(x)+len(y))

	description := fmt.Sprintf("group distributions of %s and %s differ (H=%.3f, df=%d, p=%.4f)",
		labelX, labelY, h, df, pValue)
	if pValue > 0.05 {
		description = fmt.Sprintf("no significant group difference between %s and %s (H=%.3f, p=%.4f)",
			labelX, labelY, h, pValue)
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   h,
		EffectSize:  epsilonSq,
		PValue:      pValue,
		Signal:      classifySignal(epsilonSq),
		Description: description,
		Metadata: map[string]interface{}{
			"degrees_freedom": df,
			"n_x":             len(x),
			"n_y":             len(y),
			"label_x":         labelX,
			"label_y":         labelY,
		},
	}
}

// KruskalWallis computes the tie-corrected H statistic over k groups with a
// chi-square p-value approximation (df = k-1).
func KruskalWallis(groups [][]float64) (h, pValue float64, df int) {
	var nonEmpty [][]float64
	total := 0
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
			total += len(g)
		}
	}
	if len(nonEmpty) < 2 || total < 3 {
		return 0, 1.0, 0
	}

	combined := make([]float64, 0, total)
	for _, g := range nonEmpty {
		combined = append(combined, g...)
	}
	ranks := Ranks(combined)

	n := float64(total)
	h = 0.0
	offset := 0
	for _, g := range nonEmpty {
		rankSum := 0.0
		for i := range g {
			rankSum += ranks[offset+i]
		}
		offset += len(g)
		h += rankSum * rankSum / float64(len(g))
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	// Tie correction
	correction := 1 - tieCorrection(combined)/(n*n*n-n)
	if correction > 0 {
		h /= correction
	}

	df = len(nonEmpty) - 1
	return h, chiSquareP(h, float64(df)), df
}

// EpsilonSquared is the standard Kruskal-Wallis effect size
func EpsilonSquared(h float64, n int) float64 {
	if n < 2 {
		return 0
	}
	e := h * float64(n+1) / (float64(n)*float64(n) - 1)
	return math.Max(0, math.Min(1, e))
}
