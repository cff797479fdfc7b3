package senses

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// PearsonSense detects linear relationships between numeric variables
type PearsonSense struct{}

// NewPearsonSense creates a new Pearson correlation sense
func NewPearsonSense() *PearsonSense {
	return &PearsonSense{}
}

// Name returns the sense name
func (s *PearsonSense) Name() string {
	return "pearson"
}

// Description returns a human-readable description
func (s *PearsonSense) Description() string {
	return "Detects linear relationships between numeric variables"
}

// RequiresPairs indicates this sense needs parallel samples
func (s *PearsonSense) RequiresPairs() bool {
	return true
}

// Analyze computes Pearson's r with a t-distribution p-value
func (s *PearsonSense) Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult {
	if len(x) != len(y) || len(x) < 4 {
		return insufficientResult(s.Name(), "Insufficient data for Pearson correlation analysis")
	}

	r, pValue := Pearson(x, y)

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	description := fmt.Sprintf("%s linear relationship between %s and %s (r=%.3f, p=%.4f)",
		direction, labelX, labelY, r, pValue)
	if pValue > 0.05 {
		description = fmt.Sprintf("no significant linear relationship between %s and %s (r=%.3f, p=%.4f)",
			labelX, labelY, r, pValue)
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   r,
		EffectSize:  r,
		PValue:      pValue,
		Signal:      classifySignal(r),
		Description: description,
		Metadata: map[string]interface{}{
			"correlation_type": "linear",
			"sample_size":      len(x),
			"label_x":          labelX,
			"label_y":          labelY,
		},
	}
}

// Pearson computes r and its two-tailed t-approximation p-value.
// Constant inputs yield r=0, p=1.
func Pearson(x, y []float64) (r, pValue float64) {
	n := len(x)
	if n < 4 || n != len(y) {
		return 0, 1.0
	}

	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 1.0
	}
	r = math.Max(-1, math.Min(1, r))

	if math.Abs(r) >= 1 {
		return r, 0
	}

	tStat := r * math.Sqrt(float64(n-2)/(1-r*r))
	return r, studentTP2(tStat, float64(n-2))
}
