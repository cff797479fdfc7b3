// Package senses implements the standard hypothesis tests the analysis
// battery runs: chi-square, Spearman, Pearson, Mann-Whitney and
// Kruskal-Wallis, each behind a common StatisticalSense interface.
package senses

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// SenseResult represents the output of a single statistical sense
type SenseResult struct {
	SenseName   string                 `json:"sense_name"`
	Statistic   float64                `json:"statistic"`
	EffectSize  float64                `json:"effect_size"`
	PValue      float64                `json:"p_value"`
	Signal      string                 `json:"signal"` // "weak", "moderate", "strong", "very_strong"
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// StatisticalSense defines the interface for each statistical sense.
// For paired senses x and y are parallel samples; for two-group senses
// (Mann-Whitney, Kruskal-Wallis) they are the two groups and may differ
// in length.
type StatisticalSense interface {
	Name() string
	Description() string
	Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult
	RequiresPairs() bool
}

// SenseEngine orchestrates the statistical senses
type SenseEngine struct {
	senses []StatisticalSense
}

// NewSenseEngine creates an engine with all five senses registered
func NewSenseEngine() *SenseEngine {
	return &SenseEngine{
		senses: []StatisticalSense{
			NewChiSquareSense(),
			NewSpearmanSense(),
			NewPearsonSense(),
			NewMannWhitneySense(),
			NewKruskalWallisSense(),
		},
	}
}

// AnalyzeAll runs every sense concurrently and returns results in
// registration order.
func (e *SenseEngine) AnalyzeAll(ctx context.Context, x, y []float64, labelX, labelY string) []SenseResult {
	results := make([]SenseResult, len(e.senses))

	type indexed struct {
		result SenseResult
		index  int
	}
	resultChan := make(chan indexed, len(e.senses))

	for i, sense := range e.senses {
		go func(sense StatisticalSense, idx int) {
			resultChan <- indexed{result: sense.Analyze(ctx, x, y, labelX, labelY), index: idx}
		}(sense, i)
	}

	for range e.senses {
		res := <-resultChan
		results[res.index] = res.result
	}
	return results
}

// AnalyzeSingle runs a specific sense by name
func (e *SenseEngine) AnalyzeSingle(ctx context.Context, senseName string, x, y []float64, labelX, labelY string) (SenseResult, bool) {
	for _, sense := range e.senses {
		if sense.Name() == senseName {
			return sense.Analyze(ctx, x, y, labelX, labelY), true
		}
	}
	return SenseResult{}, false
}

// ListSenses returns all available sense names
func (e *SenseEngine) ListSenses() []string {
	names := make([]string, len(e.senses))
	for i, sense := range e.senses {
		names[i] = sense.Name()
	}
	return names
}

// insufficientResult is the shared degenerate-input result
func insufficientResult(name, description string) SenseResult {
	return SenseResult{
		SenseName:   name,
		PValue:      1.0,
		Signal:      "weak",
		Description: description,
	}
}

// classifySignal converts an absolute effect size to signal strength
func classifySignal(effectSize float64) string {
	absEffect := math.Abs(effectSize)
	switch {
	case absEffect < 0.2:
		return "weak"
	case absEffect < 0.5:
		return "moderate"
	case absEffect < 0.8:
		return "strong"
	default:
		return "very_strong"
	}
}

// chiSquareP returns the upper-tail p-value of the chi-square distribution
func chiSquareP(stat, df float64) float64 {
	if df <= 0 || stat <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: df}
	return clampP(dist.Survival(stat))
}

// studentTP2 returns the two-tailed p-value of the t distribution
func studentTP2(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1.0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampP(2 * dist.CDF(-math.Abs(t)))
}

// normalP2 returns the two-tailed p-value of the standard normal
func normalP2(z float64) float64 {
	if math.IsNaN(z) {
		return 1.0
	}
	return clampP(2 * distuv.UnitNormal.CDF(-math.Abs(z)))
}

func clampP(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Ranks converts values to 1-based ranks, averaging ties.
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// tieCorrection computes the standard tie-correction term sum(t^3 - t)
// over the tie groups of data.
func tieCorrection(data []float64) float64 {
	counts := make(map[float64]int, len(data))
	for _, v := range data {
		counts[v]++
	}
	correction := 0.0
	for _, c := range counts {
		if c > 1 {
			fc := float64(c)
			correction += fc*fc*fc - fc
		}
	}
	return correction
}
