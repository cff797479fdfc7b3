package probes

import (
	"context"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/corpus"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// CurrierContrastProbe tests whether Currier A and B really behave as two
// dialects: token length by Mann-Whitney, prefix usage by chi-square.
type CurrierContrastProbe struct{}

// NewCurrierContrastProbe creates the probe
func NewCurrierContrastProbe() *CurrierContrastProbe {
	return &CurrierContrastProbe{}
}

// Name returns the probe name
func (p *CurrierContrastProbe) Name() string { return "currier-contrast" }

// Describe returns a one-line description
func (p *CurrierContrastProbe) Describe() string {
	return "Currier A vs B contrast on token length and prefix usage"
}

// Run executes the probe
func (p *CurrierContrastProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	byLang := env.Corpus.ByLanguage()
	groupA := byLang[corpus.CurrierA]
	groupB := byLang[corpus.CurrierB]

	if len(groupA) < 30 || len(groupB) < 30 {
		rep.Narrate("Classified tokens too sparse (A=%d, B=%d); contrast skipped", len(groupA), len(groupB))
		rep.AddFinding(report.Finding{
			Test:       "mann_whitney",
			PValue:     1,
			SampleSize: len(groupA) + len(groupB),
			Detail:     "insufficient classified tokens",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	rep.Narrate("Currier A: %d tokens, Currier B: %d tokens (%d unclassified ignored)",
		len(groupA), len(groupB), len(byLang[corpus.Unclassified]))

	// Token length contrast
	lengthsA := lengths(groupA)
	lengthsB := lengths(groupB)
	u, pValue, effect := senses.MannWhitneyU(lengthsA, lengthsB)

	rep.AddFinding(report.Finding{
		Test:       "mann_whitney",
		Statistic:  u,
		PValue:     pValue,
		EffectSize: effect,
		SampleSize: len(groupA) + len(groupB),
		Detail:     "token length, A vs B",
		Verdict:    env.Thresholds.Judge(pValue),
	})
	rep.Narrate("Token length A vs B: U=%.0f p=%.4f rank-biserial r=%.3f", u, pValue, effect)

	// Prefix usage contrast: language code x prefix code table
	var langCodes, prefixCodes []float64
	var prefixVals []string
	for _, tok := range append(append([]corpus.Token{}, groupA...), groupB...) {
		dec := env.Decomposer.Decompose(tok.Word)
		prefix := dec.Prefix
		if prefix == "" {
			prefix = "(none)"
		}
		prefixVals = append(prefixVals, prefix)
		if tok.Language == corpus.CurrierA {
			langCodes = append(langCodes, 0)
		} else {
			langCodes = append(langCodes, 1)
		}
	}
	codes, labels := affixCodes(prefixVals, 6)
	prefixCodes = codes

	tableResult, err := senses.ChiSquareOnTable(senses.ContingencyTable(langCodes, prefixCodes))
	if err != nil {
		return nil, err
	}

	rep.AddFinding(report.Finding{
		Test:       "chi_square",
		Statistic:  tableResult.ChiSquare,
		PValue:     tableResult.PValue,
		EffectSize: tableResult.CramersV,
		SampleSize: tableResult.N,
		Detail:     "language x prefix contingency table",
		Verdict:    env.Thresholds.Judge(tableResult.PValue),
	})
	rep.Narrate("Prefix usage A vs B: χ²=%.2f df=%d p=%.4f V=%.3f",
		tableResult.ChiSquare, tableResult.DF, tableResult.PValue, tableResult.CramersV)

	rep.Metadata["prefix_labels"] = labels
	rep.Metadata["n_a"] = len(groupA)
	rep.Metadata["n_b"] = len(groupB)

	rep.Finalize()
	return rep, nil
}
