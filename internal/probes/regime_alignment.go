package probes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"voynstat/adapters/stats/senses"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// RegimeCacheName is the prior-run cache mapping folio id to regime label.
const RegimeCacheName = "folio_regimes"

// RegimeAlignmentProbe correlates per-folio morphology rates with each
// other and with externally precomputed regime labels. The regime map is a
// flat-file cache written by an earlier clustering run.
type RegimeAlignmentProbe struct{}

// NewRegimeAlignmentProbe creates the probe
func NewRegimeAlignmentProbe() *RegimeAlignmentProbe {
	return &RegimeAlignmentProbe{}
}

// Name returns the probe name
func (p *RegimeAlignmentProbe) Name() string { return "regime-alignment" }

// Describe returns a one-line description
func (p *RegimeAlignmentProbe) Describe() string {
	return "Per-folio qo-/-dy rates vs precomputed regime labels"
}

// Run executes the probe
func (p *RegimeAlignmentProbe) Run(ctx context.Context, env *Env) (*report.Report, error) {
	rep := env.newReport(p.Name())

	regimes, err := env.Store.LoadStringMap(RegimeCacheName)
	if err != nil {
		return nil, err
	}

	byFolio := env.Corpus.ByFolio()
	folios := env.Corpus.Folios()

	// Per-folio morphology rates
	var qoRates, dyRates []float64
	regimeGroups := make(map[string][]float64)
	matched := 0
	for _, folio := range folios {
		toks := byFolio[folio]
		qo, dy := 0, 0
		for _, tok := range toks {
			dec := env.Decomposer.Decompose(tok.Word)
			if strings.HasPrefix(dec.Prefix, "qo") {
				qo++
			}
			if dec.Suffix == "dy" || dec.Suffix == "edy" || dec.Suffix == "eedy" {
				dy++
			}
		}
		qoRate := float64(qo) / float64(len(toks))
		dyRate := float64(dy) / float64(len(toks))
		qoRates = append(qoRates, qoRate)
		dyRates = append(dyRates, dyRate)

		if regime, ok := regimes[folio]; ok {
			regimeGroups[regime] = append(regimeGroups[regime], qoRate)
			matched++
		}
	}

	rep.Narrate("Computed qo-/-dy rates for %d folios; %d carry regime labels", len(folios), matched)

	if len(qoRates) < 8 {
		rep.AddFinding(report.Finding{
			Test:       "spearman",
			PValue:     1,
			SampleSize: len(qoRates),
			Detail:     "insufficient folios",
			Verdict:    verdict.StatusSkipped,
		})
		rep.Finalize()
		return rep, nil
	}

	// Do the two signature rates move together across folios? Both
	// correlation senses run through the engine, so the findings carry
	// the senses' own descriptions and signal strengths.
	for _, senseName := range []string{"spearman", "pearson"} {
		res, ok := env.Senses.AnalyzeSingle(ctx, senseName, qoRates, dyRates, "qo-rate", "dy-rate")
		if !ok {
			return nil, fmt.Errorf("sense %s is not registered", senseName)
		}
		rep.AddFinding(report.Finding{
			Test:       res.SenseName,
			Statistic:  res.Statistic,
			PValue:     res.PValue,
			EffectSize: res.EffectSize,
			SampleSize: len(qoRates),
			Detail:     res.Description,
			Verdict:    env.Thresholds.Judge(res.PValue),
		})
		rep.Narrate("%s: %s [%s]", res.SenseName, res.Description, res.Signal)
	}

	// Do regimes separate the qo-rate?
	if len(regimeGroups) >= 2 {
		regimeNames := make([]string, 0, len(regimeGroups))
		for name := range regimeGroups {
			regimeNames = append(regimeNames, name)
		}
		sort.Strings(regimeNames)

		groups := make([][]float64, 0, len(regimeNames))
		for _, name := range regimeNames {
			groups = append(groups, regimeGroups[name])
			rep.Narrate("  regime %s: %d folios", name, len(regimeGroups[name]))
		}

		h, hP, df := senses.KruskalWallis(groups)
		rep.AddFinding(report.Finding{
			Test:       "kruskal_wallis",
			Statistic:  h,
			PValue:     hP,
			EffectSize: senses.EpsilonSquared(h, matched),
			SampleSize: matched,
			Detail:     "qo-rate across regimes",
			Verdict:    env.Thresholds.Judge(hP),
		})
		rep.Narrate("qo-rate across %d regimes: H=%.2f df=%d p=%.4f", len(groups), h, df, hP)
	} else {
		rep.Narrate("Fewer than two regimes matched; regime separation not testable")
	}

	rep.Metadata["folios"] = len(folios)
	rep.Metadata["regimes_matched"] = matched

	rep.Finalize()
	return rep, nil
}
