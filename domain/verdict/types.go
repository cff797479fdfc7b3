package verdict

import (
	"voynstat/domain/core"
)

// Status represents the outcome of a probe or a single test within it
type Status string

const (
	StatusPass     Status = "pass"
	StatusFail     Status = "fail"
	StatusMarginal Status = "marginal"
	StatusSkipped  Status = "skipped"
)

// Reason explains why a probe reached its status
type Reason string

const (
	ReasonStatisticallySignificant   Reason = "statistically_significant"
	ReasonStatisticallyInsignificant Reason = "statistically_insignificant"
	ReasonLikelyRandom               Reason = "likely_random"
	ReasonMarginallySignificant      Reason = "marginally_significant"
	ReasonNoData                     Reason = "no_data"
	ReasonInvalidData                Reason = "invalid_data"
)

// Thresholds are the alpha levels a probe judges p-values against
type Thresholds struct {
	PassAlpha     float64 `json:"pass_alpha"`
	MarginalAlpha float64 `json:"marginal_alpha"`
}

// DefaultThresholds returns the battery-wide defaults: p<0.01 passes,
// p<0.05 is marginal, anything above fails.
func DefaultThresholds() Thresholds {
	return Thresholds{PassAlpha: 0.01, MarginalAlpha: 0.05}
}

// Judge classifies a p-value against the thresholds
func (t Thresholds) Judge(pValue float64) Status {
	switch {
	case pValue < t.PassAlpha:
		return StatusPass
	case pValue < t.MarginalAlpha:
		return StatusMarginal
	default:
		return StatusFail
	}
}

// Combine aggregates per-test statuses into an overall verdict: any fail
// fails the probe, any marginal without a fail is marginal, all-skipped is
// skipped.
func Combine(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusSkipped
	}
	overall := StatusSkipped
	for _, s := range statuses {
		switch s {
		case StatusFail:
			return StatusFail
		case StatusMarginal:
			overall = StatusMarginal
		case StatusPass:
			if overall != StatusMarginal {
				overall = StatusPass
			}
		}
	}
	return overall
}

// NullDistributionSummary provides key statistics about a permutation null
type NullDistributionSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile95 float64 `json:"percentile_95"`
	Percentile99 float64 `json:"percentile_99"`
}

// FalsificationLog provides the audit trail for a failed probe claim
type FalsificationLog struct {
	Reason            Reason                  `json:"reason"`
	PermutationPValue float64                 `json:"permutation_p_value"`
	ObservedStatistic float64                 `json:"observed_statistic"`
	NullDistribution  NullDistributionSummary `json:"null_distribution"`
	SampleSize        int                     `json:"sample_size"`
	TestUsed          string                  `json:"test_used"`
	RejectedAt        core.Timestamp          `json:"rejected_at"`
}
