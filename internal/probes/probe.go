// Package probes holds the analysis battery: each probe is one structural
// claim about the transcription, tested and reported independently.
package probes

import (
	"context"
	"fmt"

	"voynstat/adapters/battery"
	"voynstat/adapters/results"
	"voynstat/adapters/stats/senses"
	"voynstat/domain/core"
	"voynstat/domain/corpus"
	"voynstat/domain/morph"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
)

// Env carries the shared machinery every probe runs against
type Env struct {
	Corpus     *corpus.Corpus
	Decomposer *morph.Decomposer
	Senses     *senses.SenseEngine
	Referee    *battery.PermutationReferee
	Store      *results.Store
	Thresholds verdict.Thresholds
	RunID      core.RunID
}

// NewEnv assembles an environment with defaults where the caller passes nil
func NewEnv(c *corpus.Corpus, store *results.Store, referee *battery.PermutationReferee) *Env {
	return &Env{
		Corpus:     c,
		Decomposer: morph.NewDecomposer(),
		Senses:     senses.NewSenseEngine(),
		Referee:    referee,
		Store:      store,
		Thresholds: verdict.DefaultThresholds(),
		RunID:      core.RunID(core.NewID()),
	}
}

// newReport starts a report bound to the environment's corpus and run
func (e *Env) newReport(probe string) *report.Report {
	return report.New(probe, e.RunID, e.Corpus.Fingerprint(), e.Corpus.Len())
}

// Probe is a single registered analysis
type Probe interface {
	Name() string
	Describe() string
	Run(ctx context.Context, env *Env) (*report.Report, error)
}

// All returns every registered probe in battery order
func All() []Probe {
	return []Probe{
		NewMorphCoverageProbe(),
		NewPrefixSuffixProbe(),
		NewCurrierContrastProbe(),
		NewPositionalProbe(),
		NewSectionProfileProbe(),
		NewRegimeAlignmentProbe(),
		NewClassAssociationProbe(),
	}
}

// Lookup finds a probe by name
func Lookup(name string) (Probe, error) {
	for _, p := range All() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrProbeNotFound, name)
}

// Names lists registered probe names in battery order
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name()
	}
	return names
}

// affixCodes assigns stable integer codes to the top-k values of a
// categorical sequence, with everything else bucketed under the final code.
// The bucket label closes the code table.
func affixCodes(values []string, k int) (codes []float64, labels []string) {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	labels = topK(counts, k)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	other := len(labels)
	labels = append(labels, "other")

	codes = make([]float64, len(values))
	for i, v := range values {
		if idx, ok := index[v]; ok {
			codes[i] = float64(idx)
		} else {
			codes[i] = float64(other)
		}
	}
	return codes, labels
}

// topK returns the k most frequent keys, ties broken alphabetically
func topK(counts map[string]int, k int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	var out []string
	for len(out) < k && len(keys) > 0 {
		best := -1
		for i, key := range keys {
			if best < 0 ||
				counts[key] > counts[keys[best]] ||
				(counts[key] == counts[keys[best]] && key < keys[best]) {
				best = i
			}
		}
		out = append(out, keys[best])
		keys = append(keys[:best], keys[best+1:]...)
	}
	return out
}

// lengths maps tokens to word lengths as float64
func lengths(tokens []corpus.Token) []float64 {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		out[i] = float64(len(tok.Word))
	}
	return out
}
