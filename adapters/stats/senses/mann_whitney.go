package senses

import (
	"context"
	"fmt"
	"math"
)

// MannWhitneySense compares two independent groups without assuming
// normality.
type MannWhitneySense struct{}

// NewMannWhitneySense creates a new Mann-Whitney U sense
func NewMannWhitneySense() *MannWhitneySense {
	return &MannWhitneySense{}
}

// Name returns the sense name
func (s *MannWhitneySense) Name() string {
	return "mann_whitney"
}

// Description returns a human-readable description
func (s *MannWhitneySense) Description() string {
	return "Compares the distributions of two independent groups by rank"
}

// RequiresPairs indicates x and y are independent groups, not pairs
func (s *MannWhitneySense) RequiresPairs() bool {
	return false
}

// Analyze runs the Mann-Whitney U test on two groups
func (s *MannWhitneySense) Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult {
	if len(x) < 5 || len(y) < 5 {
		return insufficientResult(s.Name(), "Insufficient data for Mann-Whitney analysis")
	}

	u, pValue, effect := MannWhitneyU(x, y)

	description := fmt.Sprintf("distributions of %s (n=%d) and %s (n=%d) differ (U=%.1f, p=%.4f, r=%.3f)",
		labelX, len(x), labelY, len(y), u, pValue, effect)
	if pValue > 0.05 {
		description = fmt.Sprintf("no significant difference between %s and %s (U=%.1f, p=%.4f)",
			labelX, labelY, u, pValue)
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   u,
		EffectSize:  effect,
		PValue:      pValue,
		Signal:      classifySignal(effect),
		Description: description,
		Metadata: map[string]interface{}{
			"n_x":     len(x),
			"n_y":     len(y),
			"label_x": labelX,
			"label_y": labelY,
		},
	}
}

// MannWhitneyU computes the U statistic for two independent samples with a
// tie-corrected normal approximation. The rank-biserial correlation is
// returned as the effect size.
func MannWhitneyU(x, y []float64) (u, pValue, effectSize float64) {
	nx, ny := float64(len(x)), float64(len(y))
	if nx == 0 || ny == 0 {
		return 0, 1.0, 0
	}

	combined := make([]float64, 0, len(x)+len(y))
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks := Ranks(combined)

	rankSumX := 0.0
	for i := range x {
		rankSumX += ranks[i]
	}

	u = rankSumX - nx*(nx+1)/2

	mean := nx * ny / 2
	n := nx + ny
	correction := tieCorrection(combined)
	variance := nx * ny / 12 * ((n + 1) - correction/(n*(n-1)))
	if variance <= 0 {
		// All values tied: no evidence either way
		return u, 1.0, 0
	}

	z := (u - mean) / math.Sqrt(variance)
	pValue = normalP2(z)

	// Rank-biserial correlation: r = 1 - 2U/(nx*ny)
	effectSize = 1 - 2*u/(nx*ny)
	return u, pValue, effectSize
}
