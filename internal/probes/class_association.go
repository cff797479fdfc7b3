package probes

import (
	"context"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// ClassCacheName is the prior-run cache mapping word to its assigned class.
const ClassCacheName = "token_classes"

// ClassAssociationProbe tests whether an externally assigned token
// classification lines up with morphology: class x prefix chi-square,
// permutation-checked.
type ClassAssociationProbe struct{}

// NewClassAssociationProbe creates the probe
func NewClassAssociationProbe() *ClassAssociationProbe {
	return &ClassAssociationProbe{}
}

// Name returns the probe name
func (p *ClassAssociationProbe) Name() string { return "class-morph-association" }

// Describe returns a one-line description
func (p *ClassAssociationProbe) Describe() string {
	return "External token classes vs prefixes, chi-square with permutation check"
}

// Run executes the probe
func (p *ClassAssociationProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	classes, err := env.Store.LoadStringMap(ClassCacheName)
	if err != nil {
		return nil, err
	}

	var classVals, prefixVals []string
	unclassified := 0
	for _, tok := range env.Corpus.Tokens() {
		class, ok := classes[tok.Word]
		if !ok {
			unclassified++
			continue
		}
		prefix := env.Decomposer.Decompose(tok.Word).Prefix
		if prefix == "" {
			prefix = "(none)"
		}
		classVals = append(classVals, class)
		prefixVals = append(prefixVals, prefix)
	}

	rep.Narrate("Class map covers %d of %d tokens (%d unmapped)",
		len(classVals), env.Corpus.Len(), unclassified)

	if len(classVals) < 30 {
		rep.AddFinding(report.Finding{
			Test:       "chi_square",
			PValue:     1,
			SampleSize: len(classVals),
			Detail:     "class map covers too few tokens",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	classCodes, classLabels := affixCodes(classVals, 8)
	prefixCodes, prefixLabels := affixCodes(prefixVals, 6)

	tableResult, err := senses.ChiSquareOnTable(senses.ContingencyTable(classCodes, prefixCodes))
	if err != nil {
		return nil, err
	}

	rep.AddFinding(report.Finding{
		Test:       "chi_square",
		Statistic:  tableResult.ChiSquare,
		PValue:     tableResult.PValue,
		EffectSize: tableResult.CramersV,
		SampleSize: tableResult.N,
		Detail:     "class x prefix contingency table",
		Verdict:    env.Thresholds.Judge(tableResult.PValue),
	})
	rep.Narrate("Class x prefix: χ²=%.2f df=%d p=%.4f V=%.3f",
		tableResult.ChiSquare, tableResult.DF, tableResult.PValue, tableResult.CramersV)

	outcome, err := env.Referee.Test(ctx, classCodes, prefixCodes, func(x, y []float64) float64 {
		r, err := senses.ChiSquareOnTable(senses.ContingencyTable(x, y))
		if err != nil {
			return 0
		}
		return r.CramersV
	})
	if err != nil {
		return nil, err
	}

	permStatus := env.Thresholds.Judge(outcome.PValue)
	rep.AddFinding(report.Finding{
		Test:       "permutation_cramers_v",
		Statistic:  outcome.ObservedStat,
		PValue:     outcome.PValue,
		EffectSize: outcome.ObservedStat,
		SampleSize: tableResult.N,
		Detail:     "prefix assignment shuffled against classes",
		Verdict:    permStatus,
	})
	rep.Narrate("Permutation check: observed V=%.3f vs null mean %.3f (p=%.4f)",
		outcome.ObservedStat, outcome.Null.Mean, outcome.PValue)

	rep.Metadata["class_labels"] = classLabels
	rep.Metadata["prefix_labels"] = prefixLabels

	rep.Finalize()
	return rep, nil
}
