package probes

import (
	"context"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// PrefixSuffixProbe tests whether prefixes and suffixes combine freely or
// select each other. Independence here would support a slot-grammar reading
// of the script; association supports ligature or copying accounts.
type PrefixSuffixProbe struct{}

// NewPrefixSuffixProbe creates the probe
func NewPrefixSuffixProbe() *PrefixSuffixProbe {
	return &PrefixSuffixProbe{}
}

// Name returns the probe name
func (p *PrefixSuffixProbe) Name() string { return "prefix-suffix-independence" }

// Describe returns a one-line description
func (p *PrefixSuffixProbe) Describe() string {
	return "Chi-square test of prefix/suffix co-selection, permutation-checked"
}

// Run executes the probe
func (p *PrefixSuffixProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	decs := env.Decomposer.DecomposeAll(env.Corpus.Words())

	// Only tokens carrying both affixes can show co-selection
	var prefixVals, suffixVals []string
	for _, dec := range decs {
		if dec.HasPrefix() && dec.HasSuffix() {
			prefixVals = append(prefixVals, dec.Prefix)
			suffixVals = append(suffixVals, dec.Suffix)
		}
	}

	if len(prefixVals) < 30 {
		rep.Narrate("Only %d fully-affixed tokens; cannot test co-selection", len(prefixVals))
		rep.AddFinding(report.Finding{
			Test:       "chi_square",
			PValue:     1,
			SampleSize: len(prefixVals),
			Detail:     "insufficient fully-affixed tokens",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	prefixCodes, prefixLabels := affixCodes(prefixVals, 6)
	suffixCodes, suffixLabels := affixCodes(suffixVals, 6)

	table := senses.ContingencyTable(prefixCodes, suffixCodes)
	tableResult, err := senses.ChiSquareOnTable(table)
	if err != nil {
		return nil, err
	}

	rep.AddFinding(report.Finding{
		Test:       "chi_square",
		Statistic:  tableResult.ChiSquare,
		PValue:     tableResult.PValue,
		EffectSize: tableResult.CramersV,
		SampleSize: tableResult.N,
		Detail:     "prefix x suffix contingency table",
		Verdict:    env.Thresholds.Judge(tableResult.PValue),
	})
	rep.Narrate("Prefix x suffix: χ²=%.2f df=%d p=%.4f V=%.3f over %d fully-affixed tokens",
		tableResult.ChiSquare, tableResult.DF, tableResult.PValue, tableResult.CramersV, tableResult.N)

	// Permutation check: shuffle which suffix goes with which prefix and
	// see whether the observed Cramer's V survives.
	outcome, err := env.Referee.Test(ctx, prefixCodes, suffixCodes, func(x, y []float64) float64 {
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
		Detail:     "suffix assignment shuffled against prefixes",
		Verdict:    permStatus,
	})
	rep.Narrate("Permutation check: observed V=%.3f vs null mean %.3f (p=%.4f over %d shuffles)",
		outcome.ObservedStat, outcome.Null.Mean, outcome.PValue, outcome.Shuffles)

	if permStatus == verdict.StatusFail {
		rep.Falsification = &verdict.FalsificationLog{
			Reason:            verdict.ReasonLikelyRandom,
			PermutationPValue: outcome.PValue,
			ObservedStatistic: outcome.ObservedStat,
			NullDistribution:  outcome.Null,
			SampleSize:        tableResult.N,
			TestUsed:          "permutation_cramers_v",
			RejectedAt:        rep.GeneratedAt,
		}
	}

	rep.Metadata["prefix_labels"] = prefixLabels
	rep.Metadata["suffix_labels"] = suffixLabels
	rep.Metadata["null"] = outcome.Null

	rep.Finalize()
	return rep, nil
}
