package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voynstat/adapters/battery"
	"voynstat/adapters/results"
	"voynstat/domain/core"
	"voynstat/internal/probes"
	"voynstat/internal/testkit"
)

func newEnv(t *testing.T, withCaches bool) (*probes.Env, *results.Store) {
	t.Helper()
	c := testkit.Generate(testkit.DefaultOptions())
	store := results.NewStore(t.TempDir())
	if withCaches {
		if err := store.WriteStringMap(probes.RegimeCacheName, testkit.RegimeMap(c)); err != nil {
			t.Fatalf("writing regime cache: %v", err)
		}
		if err := store.WriteStringMap(probes.ClassCacheName, testkit.ClassMap(c)); err != nil {
			t.Fatalf("writing class cache: %v", err)
		}
	}
	referee := battery.NewPermutationReferee(42)
	referee.SetShuffles(200)
	return probes.NewEnv(c, store, referee), store
}

func TestBattery_FullRun(t *testing.T) {
	env, store := newEnv(t, true)
	excelPath := filepath.Join(t.TempDir(), "summary.xlsx")

	b := New(env, WithExcelSummary(excelPath))
	summary, err := b.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Failures) != 0 {
		t.Fatalf("expected no failures, got %v", summary.Failures)
	}
	if len(summary.Reports) != len(probes.Names()) {
		t.Fatalf("expected %d reports, got %d", len(probes.Names()), len(summary.Reports))
	}

	// Every report landed in the store
	stored, err := store.ListReports()
	if err != nil {
		t.Fatalf("listing reports: %v", err)
	}
	if len(stored) != len(summary.Reports) {
		t.Errorf("expected %d stored reports, got %d", len(summary.Reports), len(stored))
	}

	// Reports share the battery run id and corpus fingerprint
	for _, rep := range summary.Reports {
		if rep.RunID != summary.RunID {
			t.Errorf("report %s carries run id %s, want %s", rep.Probe, rep.RunID, summary.RunID)
		}
		if rep.CorpusFingerprint != env.Corpus.Fingerprint() {
			t.Errorf("report %s fingerprint mismatch", rep.Probe)
		}
	}

	if _, err := os.Stat(excelPath); err != nil {
		t.Errorf("expected Excel summary at %s: %v", excelPath, err)
	}
}

func TestBattery_SelectedProbes(t *testing.T) {
	env, _ := newEnv(t, false)

	b := New(env)
	summary, err := b.Run(context.Background(), []string{"morph-coverage", "section-profile"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(summary.Reports))
	}
}

func TestBattery_UnknownProbe(t *testing.T) {
	env, _ := newEnv(t, false)

	_, err := New(env).Run(context.Background(), []string{"no-such-probe"})
	if !errors.Is(err, core.ErrProbeNotFound) {
		t.Errorf("expected ErrProbeNotFound, got %v", err)
	}
}

func TestBattery_ContinuesPastFailedProbe(t *testing.T) {
	// Without the caches, regime and class probes fail; the rest must
	// still report.
	env, _ := newEnv(t, false)

	summary, err := New(env).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %v", summary.Failures)
	}
	if _, ok := summary.Failures["regime-alignment"]; !ok {
		t.Error("expected regime-alignment to fail without its cache")
	}
	if _, ok := summary.Failures["class-morph-association"]; !ok {
		t.Error("expected class-morph-association to fail without its cache")
	}
	if len(summary.Reports) != len(probes.Names())-2 {
		t.Errorf("expected %d successful reports, got %d", len(probes.Names())-2, len(summary.Reports))
	}
}
