// Package report defines the JSON report every probe emits: a set of test
// findings, a console narrative, and an overall verdict.
package report

import (
	"fmt"

	"voynstat/domain/core"
	"voynstat/domain/verdict"
)

// Finding is one statistical result inside a probe report.
type Finding struct {
	Test       string         `json:"test"`
	Statistic  float64        `json:"statistic"`
	PValue     float64        `json:"p_value"`
	EffectSize float64        `json:"effect_size"`
	SampleSize int            `json:"sample_size"`
	Detail     string         `json:"detail,omitempty"`
	Verdict    verdict.Status `json:"verdict"`
}

// Report is the serialized output of one probe run.
type Report struct {
	Probe             string                    `json:"probe"`
	RunID             core.RunID                `json:"run_id"`
	GeneratedAt       core.Timestamp            `json:"generated_at"`
	CorpusFingerprint core.Hash                 `json:"corpus_fingerprint"`
	TokenCount        int                       `json:"token_count"`
	Findings          []Finding                 `json:"findings"`
	Narrative         []string                  `json:"narrative"`
	Verdict           verdict.Status            `json:"verdict"`
	Falsification     *verdict.FalsificationLog `json:"falsification,omitempty"`
	Metadata          map[string]interface{}    `json:"metadata,omitempty"`
}

// New starts a report for one probe run.
func New(probe string, runID core.RunID, fingerprint core.Hash, tokenCount int) *Report {
	return &Report{
		Probe:             probe,
		RunID:             runID,
		GeneratedAt:       core.Now(),
		CorpusFingerprint: fingerprint,
		TokenCount:        tokenCount,
		Metadata:          make(map[string]interface{}),
	}
}

// AddFinding appends a test result.
func (r *Report) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Narrate appends a formatted line to the console narrative.
func (r *Report) Narrate(format string, args ...interface{}) {
	r.Narrative = append(r.Narrative, fmt.Sprintf(format, args...))
}

// Finalize computes the overall verdict from the findings and appends the
// closing narrative line.
func (r *Report) Finalize() {
	statuses := make([]verdict.Status, len(r.Findings))
	for i, f := range r.Findings {
		statuses[i] = f.Verdict
	}
	r.Verdict = verdict.Combine(statuses)
	r.Narrate("VERDICT: %s", r.Verdict)
}
