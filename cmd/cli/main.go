package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"voynstat/adapters/battery"
	"voynstat/adapters/postgres"
	"voynstat/adapters/results"
	"voynstat/adapters/tsv"
	"voynstat/internal"
	"voynstat/internal/config"
	"voynstat/internal/probes"
	"voynstat/internal/runner"
)

var log = internal.DefaultLogger

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:           "voynstat",
		Short:         "Statistical probes over a Voynich manuscript transcription",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("transcription", "", "path to the transcription TSV (overrides VOYNSTAT_TRANSCRIPTION)")
	root.PersistentFlags().String("out", "", "results directory (overrides VOYNSTAT_RESULTS_DIR)")
	root.PersistentFlags().Int("shuffles", 0, "permutation shuffle count (overrides VOYNSTAT_SHUFFLES)")
	root.PersistentFlags().Int64("seed", 0, "permutation seed (overrides VOYNSTAT_SEED)")
	root.PersistentFlags().String("excel", "", "write an Excel summary to this path")
	root.PersistentFlags().String("ledger", "", "postgres URL for the run ledger")

	root.AddCommand(batteryCmd(), probeCmd(), listCmd())

	if err := root.Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func batteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "Run every registered probe and distribute the reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBattery(cmd, nil)
		},
	}
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <name>...",
		Short: "Run one or more probes by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBattery(cmd, args)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered probes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range probes.All() {
				fmt.Printf("%-28s %s\n", p.Name(), p.Describe())
			}
			return nil
		},
	}
}

func runBattery(cmd *cobra.Command, names []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := tsv.NewReader(cfg.Data.TranscriptionPath).Read()
	if err != nil {
		return err
	}
	log.Info("loaded %d tokens from %s", c.Len(), cfg.Data.TranscriptionPath)

	store := results.NewStore(cfg.Data.ResultsDir)
	referee := battery.NewPermutationReferee(cfg.Stats.Seed)
	referee.SetShuffles(cfg.Stats.Shuffles)
	env := probes.NewEnv(c, store, referee)

	var opts []runner.Option
	if cfg.Export.ExcelPath != "" {
		opts = append(opts, runner.WithExcelSummary(cfg.Export.ExcelPath))
	}
	if cfg.Ledger.Enabled() {
		ledger, err := postgres.Open(ctx, cfg.Ledger.URL)
		if err != nil {
			return err
		}
		defer ledger.Close()
		opts = append(opts, runner.WithLedger(ledger))
	}

	summary, err := runner.New(env, opts...).Run(ctx, names)
	if err != nil {
		return err
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d of %d probes failed", len(summary.Failures), len(summary.Failures)+len(summary.Reports))
	}
	return nil
}

// loadConfig merges environment configuration with flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("transcription"); v != "" {
		cfg.Data.TranscriptionPath = v
	}
	if v, _ := flags.GetString("out"); v != "" {
		cfg.Data.ResultsDir = v
	}
	if v, _ := flags.GetInt("shuffles"); v > 0 {
		cfg.Stats.Shuffles = v
	}
	if v, _ := flags.GetInt64("seed"); v != 0 {
		cfg.Stats.Seed = v
	}
	if v, _ := flags.GetString("excel"); v != "" {
		cfg.Export.ExcelPath = v
	}
	if v, _ := flags.GetString("ledger"); v != "" {
		cfg.Ledger.URL = v
	}
	return cfg, nil
}
