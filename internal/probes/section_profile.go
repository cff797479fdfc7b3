package probes

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/corpus"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// SectionProfileProbe asks whether the manuscript's sections write
// differently: token length across all sections by Kruskal-Wallis, then the
// astronomical/zodiac/cosmological group against the rest by Mann-Whitney.
type SectionProfileProbe struct{}

// NewSectionProfileProbe creates the probe
func NewSectionProfileProbe() *SectionProfileProbe {
	return &SectionProfileProbe{}
}

// Name returns the probe name
func (p *SectionProfileProbe) Name() string { return "section-profile" }

// Describe returns a one-line description
func (p *SectionProfileProbe) Describe() string {
	return "Token length across sections (Kruskal-Wallis) and AZC vs rest"
}

// Run executes the probe
func (p *SectionProfileProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	bySection := env.Corpus.BySection()
	if len(bySection) < 2 {
		rep.Narrate("Corpus spans %d section(s); section profile skipped", len(bySection))
		rep.AddFinding(report.Finding{
			Test:       "kruskal_wallis",
			PValue:     1,
			SampleSize: env.Corpus.Len(),
			Detail:     "fewer than two sections present",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	// Stable section order for the narrative
	sectionNames := make([]string, 0, len(bySection))
	for section := range bySection {
		sectionNames = append(sectionNames, string(section))
	}
	sort.Strings(sectionNames)

	groups := make([][]float64, 0, len(sectionNames))
	for _, name := range sectionNames {
		toks := bySection[corpus.Section(name)]
		group := lengths(toks)
		groups = append(groups, group)
		median, _ := stats.Median(group)
		rep.Narrate("  section %s: %d tokens, median length %.1f", name, len(toks), median)
	}

	h, pValue, df := senses.KruskalWallis(groups)
	rep.AddFinding(report.Finding{
		Test:       "kruskal_wallis",
		Statistic:  h,
		PValue:     pValue,
		EffectSize: senses.EpsilonSquared(h, env.Corpus.Len()),
		SampleSize: env.Corpus.Len(),
		Detail:     "token length across sections",
		Verdict:    env.Thresholds.Judge(pValue),
	})
	rep.Narrate("Token length across %d sections: H=%.2f df=%d p=%.4f", len(groups), h, df, pValue)

	// AZC contrast
	azc, rest := env.Corpus.AZCSplit()
	if len(azc) >= 30 && len(rest) >= 30 {
		u, azcP, effect := senses.MannWhitneyU(lengths(azc), lengths(rest))
		rep.AddFinding(report.Finding{
			Test:       "mann_whitney",
			Statistic:  u,
			PValue:     azcP,
			EffectSize: effect,
			SampleSize: len(azc) + len(rest),
			Detail:     "token length, AZC vs rest",
			Verdict:    env.Thresholds.Judge(azcP),
		})
		rep.Narrate("AZC (%d tokens) vs rest (%d): U=%.0f p=%.4f r=%.3f",
			len(azc), len(rest), u, azcP, effect)
	} else {
		rep.Narrate("AZC group too small for contrast (%d tokens)", len(azc))
	}

	rep.Metadata["sections"] = sectionNames

	rep.Finalize()
	return rep, nil
}
