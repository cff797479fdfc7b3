package probes

import (
	"context"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/corpus"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// PositionalProbe tests whether line position shapes morphology: do
// line-initial and line-final tokens draw their prefixes from different
// distributions? The null model shuffles token order within each line, so
// line composition is held fixed and only position is randomized.
type PositionalProbe struct{}

// NewPositionalProbe creates the probe
func NewPositionalProbe() *PositionalProbe {
	return &PositionalProbe{}
}

// Name returns the probe name
func (p *PositionalProbe) Name() string { return "positional-profile" }

// Describe returns a one-line description
func (p *PositionalProbe) Describe() string {
	return "Line-initial vs line-final prefix placement, with within-line shuffle null"
}

// Run executes the probe
func (p *PositionalProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	byLine := env.Corpus.ByLine()

	// Code every token's prefix once, then arrange codes per line
	var allPrefixes []string
	var lineTokens [][]corpus.Token
	for _, key := range env.Corpus.Lines() {
		toks := byLine[key]
		if len(toks) < 2 {
			continue
		}
		lineTokens = append(lineTokens, toks)
		for _, tok := range toks {
			prefix := env.Decomposer.Decompose(tok.Word).Prefix
			if prefix == "" {
				prefix = "(none)"
			}
			allPrefixes = append(allPrefixes, prefix)
		}
	}

	if len(lineTokens) < 20 {
		rep.Narrate("Only %d multi-token lines; positional test skipped", len(lineTokens))
		rep.AddFinding(report.Finding{
			Test:       "chi_square",
			PValue:     1,
			SampleSize: len(lineTokens),
			Detail:     "insufficient multi-token lines",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	codes, labels := affixCodes(allPrefixes, 6)

	blocks := make([][]float64, len(lineTokens))
	offset := 0
	for i, toks := range lineTokens {
		blocks[i] = codes[offset : offset+len(toks)]
		offset += len(toks)
	}

	// Observed statistic: chi-square of position (initial/final) x prefix
	positionChi := func(blocks [][]float64) float64 {
		nLabels := len(labels)
		table := make([][]float64, 2)
		table[0] = make([]float64, nLabels)
		table[1] = make([]float64, nLabels)
		for _, b := range blocks {
			table[0][int(b[0])]++
			table[1][int(b[len(b)-1])]++
		}
		r, err := senses.ChiSquareOnTable(table)
		if err != nil {
			return 0
		}
		return r.ChiSquare
	}

	observedTable := make([][]float64, 2)
	observedTable[0] = make([]float64, len(labels))
	observedTable[1] = make([]float64, len(labels))
	for _, b := range blocks {
		observedTable[0][int(b[0])]++
		observedTable[1][int(b[len(b)-1])]++
	}
	tableResult, err := senses.ChiSquareOnTable(observedTable)
	if err != nil {
		return nil, err
	}

	rep.AddFinding(report.Finding{
		Test:       "chi_square",
		Statistic:  tableResult.ChiSquare,
		PValue:     tableResult.PValue,
		EffectSize: tableResult.CramersV,
		SampleSize: 2 * len(blocks),
		Detail:     "position (initial/final) x prefix",
		Verdict:    env.Thresholds.Judge(tableResult.PValue),
	})
	rep.Narrate("Line-initial vs line-final prefixes over %d lines: χ²=%.2f df=%d p=%.4f V=%.3f",
		len(blocks), tableResult.ChiSquare, tableResult.DF, tableResult.PValue, tableResult.CramersV)

	outcome, err := env.Referee.TestBlocks(ctx, blocks, positionChi)
	if err != nil {
		return nil, err
	}

	permStatus := env.Thresholds.Judge(outcome.PValue)
	rep.AddFinding(report.Finding{
		Test:       "permutation_within_lines",
		Statistic:  outcome.ObservedStat,
		PValue:     outcome.PValue,
		EffectSize: tableResult.CramersV,
		SampleSize: 2 * len(blocks),
		Detail:     "token order shuffled within each line",
		Verdict:    permStatus,
	})
	rep.Narrate("Within-line shuffle: observed χ²=%.2f vs null mean %.2f (p=%.4f over %d shuffles)",
		outcome.ObservedStat, outcome.Null.Mean, outcome.PValue, outcome.Shuffles)

	if permStatus == verdict.StatusFail {
		rep.Falsification = &verdict.FalsificationLog{
			Reason:            verdict.ReasonLikelyRandom,
			PermutationPValue: outcome.PValue,
			ObservedStatistic: outcome.ObservedStat,
			NullDistribution:  outcome.Null,
			SampleSize:        2 * len(blocks),
			TestUsed:          "permutation_within_lines",
			RejectedAt:        rep.GeneratedAt,
		}
	}

	rep.Metadata["prefix_labels"] = labels
	rep.Metadata["lines_tested"] = len(blocks)

	rep.Finalize()
	return rep, nil
}
