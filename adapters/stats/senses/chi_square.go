package senses

import (
	"context"
	"fmt"
	"math"
)

// ChiSquareSense detects associations between categorical variables
type ChiSquareSense struct{}

// NewChiSquareSense creates a new Chi-Square sense
func NewChiSquareSense() *ChiSquareSense {
	return &ChiSquareSense{}
}

// Name returns the sense name
func (s *ChiSquareSense) Name() string {
	return "chi_square"
}

// Description returns a human-readable description
func (s *ChiSquareSense) Description() string {
	return "Detects associations between categorical variables via a contingency table"
}

// RequiresPairs indicates this sense needs parallel samples
func (s *ChiSquareSense) RequiresPairs() bool {
	return true
}

// Analyze treats x and y as parallel categorical codes, builds their
// contingency table and runs the test of independence.
func (s *ChiSquareSense) Analyze(ctx context.Context, x, y []float64, labelX, labelY string) SenseResult {
	if len(x) != len(y) || len(x) < 10 {
		return insufficientResult(s.Name(), "Insufficient data for Chi-Square analysis")
	}

	table := ContingencyTable(x, y)
	result, err := ChiSquareOnTable(table)
	if err != nil {
		return insufficientResult(s.Name(), fmt.Sprintf("Chi-Square not applicable: %v", err))
	}

	description := fmt.Sprintf("association between %s and %s (χ²=%.3f, df=%d, p=%.4f, V=%.3f)",
		labelX, labelY, result.ChiSquare, result.DF, result.PValue, result.CramersV)
	if result.PValue > 0.05 {
		description = "no significant " + description
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   result.ChiSquare,
		EffectSize:  result.CramersV,
		PValue:      result.PValue,
		Signal:      classifySignal(result.CramersV),
		Description: description,
		Metadata: map[string]interface{}{
			"degrees_freedom": result.DF,
			"table_rows":      result.Rows,
			"table_cols":      result.Cols,
			"sample_size":     result.N,
			"label_x":         labelX,
			"label_y":         labelY,
		},
	}
}

// TableResult holds the outcome of a chi-square test of independence.
type TableResult struct {
	ChiSquare float64
	PValue    float64
	CramersV  float64
	DF        int
	Rows      int
	Cols      int
	N         int
}

// ContingencyTable cross-tabulates two parallel categorical code vectors.
// Codes are truncated to integers; negative codes mark missing values and
// are dropped.
func ContingencyTable(x, y []float64) [][]float64 {
	maxX, maxY := -1, -1
	for i := range x {
		cx, cy := int(x[i]), int(y[i])
		if cx < 0 || cy < 0 {
			continue
		}
		if cx > maxX {
			maxX = cx
		}
		if cy > maxY {
			maxY = cy
		}
	}
	if maxX < 0 || maxY < 0 {
		return nil
	}

	table := make([][]float64, maxX+1)
	for i := range table {
		table[i] = make([]float64, maxY+1)
	}
	for i := range x {
		cx, cy := int(x[i]), int(y[i])
		if cx >= 0 && cy >= 0 {
			table[cx][cy]++
		}
	}
	return table
}

// ChiSquareOnTable runs the test of independence directly on an
// observed-count table. Rows or columns with zero marginals are dropped
// before computing expectations.
func ChiSquareOnTable(table [][]float64) (TableResult, error) {
	table = dropEmptyMargins(table)
	rows := len(table)
	if rows < 2 || len(table[0]) < 2 {
		return TableResult{}, fmt.Errorf("contingency table must be at least 2x2 after dropping empty margins")
	}
	cols := len(table[0])

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	total := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += table[i][j]
			colTotals[j] += table[i][j]
			total += table[i][j]
		}
	}
	if total < 5 {
		return TableResult{}, fmt.Errorf("sample too small (n=%.0f)", total)
	}

	chiSq := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected > 0 {
				diff := table[i][j] - expected
				chiSq += diff * diff / expected
			}
		}
	}

	df := (rows - 1) * (cols - 1)
	pValue := chiSquareP(chiSq, float64(df))

	minDim := math.Min(float64(rows-1), float64(cols-1))
	cramersV := math.Sqrt(chiSq / (total * minDim))

	return TableResult{
		ChiSquare: chiSq,
		PValue:    pValue,
		CramersV:  cramersV,
		DF:        df,
		Rows:      rows,
		Cols:      cols,
		N:         int(total),
	}, nil
}

// dropEmptyMargins removes all-zero rows and columns
func dropEmptyMargins(table [][]float64) [][]float64 {
	var kept [][]float64
	colUsed := map[int]bool{}
	for _, row := range table {
		rowSum := 0.0
		for j, v := range row {
			rowSum += v
			if v > 0 {
				colUsed[j] = true
			}
		}
		if rowSum > 0 {
			kept = append(kept, row)
		}
	}

	var out [][]float64
	for _, row := range kept {
		var newRow []float64
		for j, v := range row {
			if colUsed[j] {
				newRow = append(newRow, v)
			}
		}
		out = append(out, newRow)
	}
	return out
}
