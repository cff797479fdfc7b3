// Package runner executes a selection of probes against one corpus and
// fans the reports out to the console, the JSON store, and the optional
// ledger and Excel summary.
package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"voynstat/adapters/excelexport"
	"voynstat/adapters/postgres"
	"voynstat/domain/core"
	"voynstat/domain/report"
	"voynstat/internal"
	apperrors "voynstat/internal/errors"
	"voynstat/internal/probes"
)

const maxConcurrentProbes = 4

// Summary is the aggregate outcome of one battery run
type Summary struct {
	RunID     core.RunID
	StartedAt time.Time
	Duration  time.Duration
	Reports   []*report.Report
	Failures  map[string]string
}

// Battery runs probes and distributes their reports
type Battery struct {
	env       *probes.Env
	log       *internal.Logger
	ledger    *postgres.LedgerRepository
	excelPath string

	mu sync.Mutex // serializes console narrative output
}

// Option configures a Battery
type Option func(*Battery)

// WithLedger attaches the postgres run ledger
func WithLedger(ledger *postgres.LedgerRepository) Option {
	return func(b *Battery) { b.ledger = ledger }
}

// WithExcelSummary writes a summary workbook after the run
func WithExcelSummary(path string) Option {
	return func(b *Battery) { b.excelPath = path }
}

// New creates a battery over the given environment
func New(env *probes.Env, opts ...Option) *Battery {
	b := &Battery{
		env: env,
		log: internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes the named probes (all registered probes when names is
// empty). A failed probe is recorded and does not stop the battery.
func (b *Battery) Run(ctx context.Context, names []string) (*Summary, error) {
	selected, err := b.selectProbes(names)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:     b.env.RunID,
		StartedAt: time.Now(),
		Failures:  make(map[string]string),
	}

	b.log.Info("battery run %s: %d probes over %d tokens (fingerprint %s)",
		summary.RunID, len(selected), b.env.Corpus.Len(), b.env.Corpus.Fingerprint().Short())

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)

	for _, probe := range selected {
		probe := probe
		g.Go(func() error {
			rep, err := probe.Run(gctx, b.env)
			if err != nil {
				b.log.Error("probe %s failed: %v (code %s)", probe.Name(), err, apperrors.CodeOf(err))
				mu.Lock()
				summary.Failures[probe.Name()] = err.Error()
				mu.Unlock()
				return nil
			}

			b.printNarrative(probe.Name(), rep)

			if _, err := b.env.Store.WriteReport(rep); err != nil {
				b.log.Error("cannot store report for %s: %v", probe.Name(), err)
				mu.Lock()
				summary.Failures[probe.Name()] = err.Error()
				mu.Unlock()
				return nil
			}

			mu.Lock()
			summary.Reports = append(summary.Reports, rep)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summary.Reports, func(i, j int) bool {
		return summary.Reports[i].Probe < summary.Reports[j].Probe
	})
	summary.Duration = time.Since(summary.StartedAt)

	if err := b.distribute(ctx, summary); err != nil {
		return summary, err
	}

	b.log.Info("battery run %s finished in %s: %d reports, %d failures",
		summary.RunID, summary.Duration.Round(time.Millisecond), len(summary.Reports), len(summary.Failures))
	return summary, nil
}

func (b *Battery) selectProbes(names []string) ([]probes.Probe, error) {
	if len(names) == 0 {
		return probes.All(), nil
	}
	selected := make([]probes.Probe, 0, len(names))
	for _, name := range names {
		probe, err := probes.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, probe)
	}
	return selected, nil
}

func (b *Battery) printNarrative(name string, rep *report.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Printf("\n=== %s ===\n", name)
	for _, line := range rep.Narrative {
		fmt.Println(line)
	}
}

// distribute sends the finished run to the optional sinks
func (b *Battery) distribute(ctx context.Context, summary *Summary) error {
	if b.excelPath != "" {
		if err := excelexport.WriteSummary(b.excelPath, summary.Reports); err != nil {
			return apperrors.Wrap(err, "excel summary failed")
		}
		b.log.Info("wrote Excel summary to %s", b.excelPath)
	}

	if b.ledger != nil {
		err := b.ledger.RecordRun(ctx, summary.RunID, b.env.Corpus.Fingerprint(),
			b.env.Corpus.Len(), summary.StartedAt, summary.Reports)
		if err != nil {
			return apperrors.Wrap(err, "ledger record failed")
		}
		b.log.Info("recorded run %s in ledger", summary.RunID)
	}

	return nil
}
