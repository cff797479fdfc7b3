package probes

import (
	"context"

	"github.com/montanaflynn/stats"

	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// Affix coverage below this fraction means the hardcoded tables no longer
// describe the corpus and downstream morphology probes are suspect.
const coverageFloor = 0.70

// MorphCoverageProbe inventories the affix tables against the corpus:
// what fraction of tokens decompose at all, and which affixes carry the
// inventory.
type MorphCoverageProbe struct{}

// NewMorphCoverageProbe creates the probe
func NewMorphCoverageProbe() *MorphCoverageProbe {
	return &MorphCoverageProbe{}
}

// Name returns the probe name
func (p *MorphCoverageProbe) Name() string { return "morph-coverage" }

// Describe returns a one-line description
func (p *MorphCoverageProbe) Describe() string {
	return "Affix table coverage and inventory over the full corpus"
}

// Run executes the probe
func (p *MorphCoverageProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	decs := env.Decomposer.DecomposeAll(env.Corpus.Words())

	segmented := 0
	withPrefix := 0
	withSuffix := 0
	prefixCounts := make(map[string]int)
	suffixCounts := make(map[string]int)
	middleLens := make([]float64, 0, len(decs))

	for _, dec := range decs {
		if dec.IsSegmented() {
			segmented++
		}
		if dec.HasPrefix() {
			withPrefix++
			prefixCounts[dec.Prefix]++
		}
		if dec.HasSuffix() {
			withSuffix++
			suffixCounts[dec.Suffix]++
		}
		middleLens = append(middleLens, float64(len(dec.Middle)))
	}

	n := float64(len(decs))
	coverage := float64(segmented) / n
	medianMiddle, _ := stats.Median(middleLens)

	status := verdict.StatusPass
	if coverage < coverageFloor {
		status = verdict.StatusFail
	}
	rep.AddFinding(report.Finding{
		Test:       "affix_coverage",
		Statistic:  coverage,
		PValue:     0,
		EffectSize: coverage,
		SampleSize: len(decs),
		Detail:     "fraction of tokens with at least one recognized affix",
		Verdict:    status,
	})

	rep.Narrate("Decomposed %d tokens: %.1f%% segmented, %.1f%% with prefix, %.1f%% with suffix",
		len(decs), 100*coverage, 100*float64(withPrefix)/n, 100*float64(withSuffix)/n)
	rep.Narrate("Median middle length: %.1f glyphs", medianMiddle)

	topPrefixes := topK(prefixCounts, 5)
	topSuffixes := topK(suffixCounts, 5)
	for _, prefix := range topPrefixes {
		rep.Narrate("  prefix %-4s %5d tokens (%.1f%%)", prefix, prefixCounts[prefix], 100*float64(prefixCounts[prefix])/n)
	}
	for _, suffix := range topSuffixes {
		rep.Narrate("  suffix %-4s %5d tokens (%.1f%%)", suffix, suffixCounts[suffix], 100*float64(suffixCounts[suffix])/n)
	}

	rep.Metadata["prefix_counts"] = prefixCounts
	rep.Metadata["suffix_counts"] = suffixCounts
	rep.Metadata["coverage"] = coverage
	rep.Metadata["median_middle_length"] = medianMiddle

	rep.Finalize()
	return rep, nil
}
