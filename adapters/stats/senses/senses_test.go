package senses

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func TestSenseEngine_RunsAllSenses(t *testing.T) {
	engine := NewSenseEngine()
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i % 4)
		y[i] = x[i] + rng.Float64()
	}

	results := engine.AnalyzeAll(ctx, x, y, "affix_code", "length")

	expected := map[string]bool{
		"chi_square":     false,
		"spearman":       false,
		"pearson":        false,
		"mann_whitney":   false,
		"kruskal_wallis": false,
	}

	if len(results) != 5 {
		t.Fatalf("expected 5 sense results, got %d", len(results))
	}

	for _, result := range results {
		if _, ok := expected[result.SenseName]; !ok {
			t.Errorf("unexpected sense name: %s", result.SenseName)
		}
		expected[result.SenseName] = true

		if result.Description == "" {
			t.Errorf("%s: description should not be empty", result.SenseName)
		}
		if result.PValue < 0 || result.PValue > 1 {
			t.Errorf("%s: p-value should be in [0,1], got %f", result.SenseName, result.PValue)
		}
		if result.Signal == "" {
			t.Errorf("%s: signal should not be empty", result.SenseName)
		}
	}

	for sense, executed := range expected {
		if !executed {
			t.Errorf("sense %s was not executed", sense)
		}
	}
}

func TestSpearman_DetectsMonotone(t *testing.T) {
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = math.Sqrt(float64(i)) // monotone but non-linear
	}

	rho, p := Spearman(x, y)
	if rho < 0.99 {
		t.Errorf("expected rho near 1 for monotone data, got %f", rho)
	}
	if p > 0.001 {
		t.Errorf("expected tiny p-value, got %f", p)
	}
}

func TestSpearman_NoRelationship(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.NormFloat64()
		y[i] = rng.NormFloat64()
	}

	rho, p := Spearman(x, y)
	if math.Abs(rho) > 0.2 {
		t.Errorf("expected rho near 0 for independent data, got %f", rho)
	}
	if p < 0.01 {
		t.Errorf("independent data should not be highly significant, p=%f", p)
	}
}

func TestPearson_LinearRelationship(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.Float64() * 10
		y[i] = 2*x[i] + 1 + rng.NormFloat64()*0.5
	}

	r, p := Pearson(x, y)
	if r < 0.9 {
		t.Errorf("expected strong positive r, got %f", r)
	}
	if p > 0.001 {
		t.Errorf("expected tiny p-value, got %f", p)
	}
}

func TestPearson_ConstantInput(t *testing.T) {
	x := []float64{3, 3, 3, 3, 3, 3}
	y := []float64{1, 2, 3, 4, 5, 6}
	r, p := Pearson(x, y)
	if r != 0 || p != 1.0 {
		t.Errorf("constant input should give r=0 p=1, got r=%f p=%f", r, p)
	}
}

func TestMannWhitneyU_ShiftedGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := make([]float64, 80)
	b := make([]float64, 80)
	for i := range a {
		a[i] = rng.NormFloat64()
		b[i] = rng.NormFloat64() + 2.0 // clear shift
	}

	_, p, effect := MannWhitneyU(a, b)
	if p > 0.001 {
		t.Errorf("expected tiny p-value for shifted groups, got %f", p)
	}
	if math.Abs(effect) < 0.5 {
		t.Errorf("expected large effect size, got %f", effect)
	}
}

func TestMannWhitneyU_IdenticalGroups(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	u, p, _ := MannWhitneyU(a, a)
	if p < 0.9 {
		t.Errorf("identical groups should give p near 1, got %f", p)
	}
	// U should sit at its mean nx*ny/2 = 50
	if math.Abs(u-50) > 1e-9 {
		t.Errorf("expected U=50 for identical groups, got %f", u)
	}
}

func TestKruskalWallis_SeparatedGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	groups := make([][]float64, 3)
	for g := range groups {
		groups[g] = make([]float64, 50)
		for i := range groups[g] {
			groups[g][i] = rng.NormFloat64() + float64(g)*3
		}
	}

	h, p, df := KruskalWallis(groups)
	if df != 2 {
		t.Errorf("expected df=2, got %d", df)
	}
	if h <= 0 {
		t.Errorf("expected positive H, got %f", h)
	}
	if p > 0.001 {
		t.Errorf("expected tiny p-value for separated groups, got %f", p)
	}
}

func TestKruskalWallis_DegenerateInput(t *testing.T) {
	_, p, df := KruskalWallis([][]float64{{1, 2, 3}})
	if p != 1.0 || df != 0 {
		t.Errorf("single group should be inconclusive, got p=%f df=%d", p, df)
	}
}

func TestChiSquareOnTable_Association(t *testing.T) {
	// Strong diagonal association
	table := [][]float64{
		{40, 5, 5},
		{5, 40, 5},
		{5, 5, 40},
	}
	result, err := ChiSquareOnTable(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DF != 4 {
		t.Errorf("expected df=4, got %d", result.DF)
	}
	if result.PValue > 0.001 {
		t.Errorf("expected tiny p-value, got %f", result.PValue)
	}
	if result.CramersV < 0.4 {
		t.Errorf("expected substantial Cramer's V, got %f", result.CramersV)
	}
}

func TestChiSquareOnTable_Independence(t *testing.T) {
	// Perfectly proportional rows: zero association
	table := [][]float64{
		{20, 40},
		{10, 20},
	}
	result, err := ChiSquareOnTable(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChiSquare > 1e-9 {
		t.Errorf("expected chi-square of 0, got %f", result.ChiSquare)
	}
	if result.PValue < 0.99 {
		t.Errorf("expected p near 1, got %f", result.PValue)
	}
}

func TestChiSquareOnTable_DropsEmptyMargins(t *testing.T) {
	table := [][]float64{
		{30, 0, 10},
		{0, 0, 0},
		{10, 0, 30},
	}
	result, err := ChiSquareOnTable(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows != 2 || result.Cols != 2 {
		t.Errorf("expected 2x2 after dropping margins, got %dx%d", result.Rows, result.Cols)
	}
}

func TestContingencyTable_IgnoresNegativeCodes(t *testing.T) {
	x := []float64{0, 1, -1, 1, 0}
	y := []float64{1, 0, 0, -1, 1}
	table := ContingencyTable(x, y)
	if len(table) != 2 || len(table[0]) != 2 {
		t.Fatalf("expected 2x2 table, got %dx%d", len(table), len(table[0]))
	}
	total := 0.0
	for _, row := range table {
		for _, v := range row {
			total += v
		}
	}
	if total != 3 {
		t.Errorf("expected 3 counted pairs, got %.0f", total)
	}
}

func TestEpsilonSquared_Bounds(t *testing.T) {
	if got := EpsilonSquared(0, 100); got != 0 {
		t.Errorf("H=0 should yield zero effect, got %f", got)
	}
	if got := EpsilonSquared(50, 1); got != 0 {
		t.Errorf("n<2 should yield zero effect, got %f", got)
	}
	// Clamped to [0, 1] even for an H larger than the sample allows
	if got := EpsilonSquared(1000, 10); got != 1 {
		t.Errorf("oversized H should clamp to 1, got %f", got)
	}
	// H=9.9 over n=100: 9.9*101/9999
	got := EpsilonSquared(9.9, 100)
	want := 9.9 * 101 / 9999
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestRanks_TieAveraging(t *testing.T) {
	ranks := Ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank %d: expected %f, got %f", i, want[i], ranks[i])
		}
	}
}
