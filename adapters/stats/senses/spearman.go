package senses

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// SpearmanSense detects monotonic relationships using rank correlation
type SpearmanSense struct{}

// NewSpearmanSense creates a new Spearman correlation sense
func NewSpearmanSense() *SpearmanSense {
	return &SpearmanSense{}
}

// Name returns the sense name
func (s *SpearmanSense) Name() string {
	return "spearman"
}

// Description returns a human-readable description
func (s *SpearmanSense) Description() string {
	return "Detects monotonic relationships robust to outliers and non-normality"
}

// RequiresPairs indicates this sense needs parallel samples
func (s *SpearmanSense) RequiresPairs() bool {
	return true
}

// Analyze computes Spearman's rank correlation coefficient
func (s *SpearmanSense) Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult {
	if len(x) != len(y) || len(x) < 4 {
		return insufficientResult(s.Name(), "Insufficient data for Spearman correlation analysis")
	}

	rho, pValue := Spearman(x, y)

	direction := "positive"
	if rho < 0 {
		direction = "negative"
	}
	description := fmt.Sprintf("%s monotonic relationship between %s and %s (ρ=%.3f, p=%.4f)",
		direction, labelX, labelY, rho, pValue)
	if pValue > 0.05 {
		description = "no significant monotonic relationship between " + labelX + " and " + labelY +
			fmt.Sprintf(" (ρ=%.3f, p=%.4f)", rho, pValue)
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   rho,
		EffectSize:  rho,
		PValue:      pValue,
		Signal:      classifySignal(rho),
		Description: description,
		Metadata: map[string]interface{}{
			"correlation_type": "rank",
			"sample_size":      len(x),
			"label_x":          labelX,
			"label_y":          labelY,
		},
	}
}

// Spearman computes rho over tie-averaged ranks with a t-distribution
// p-value approximation.
func Spearman(x, y []float64) (rho, pValue float64) {
	n := len(x)
	if n < 4 || n != len(y) {
		return 0, 1.0
	}

	rho = stat.Correlation(Ranks(x), Ranks(y), nil)
	if math.IsNaN(rho) {
		return 0, 1.0
	}
	rho = math.Max(-1, math.Min(1, rho))

	if math.Abs(rho) >= 1 {
		// Perfect monotone relationship: the t statistic diverges
		return rho, 0
	}

	tStat := rho * math.Sqrt(float64(n-2)/(1-rho*rho))
	return rho, studentTP2(tStat, float64(n-2))
}
