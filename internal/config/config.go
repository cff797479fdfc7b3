package config

import (
	"os"
	"strconv"

	apperrors "voynstat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Stats  StatsConfig
	Server ServerConfig
	Ledger LedgerConfig
	Export ExportConfig
}

// DataConfig holds corpus and results paths
type DataConfig struct {
	TranscriptionPath string
	ResultsDir        string
}

// StatsConfig holds battery-wide statistical settings
type StatsConfig struct {
	Shuffles int
	Seed     int64
}

// ServerConfig holds report browser settings
type ServerConfig struct {
	Port string
}

// LedgerConfig holds the optional postgres run ledger settings
type LedgerConfig struct {
	URL string
}

// Enabled reports whether a ledger database was configured
func (c LedgerConfig) Enabled() bool {
	return c.URL != ""
}

// ExportConfig holds the optional Excel summary settings
type ExportConfig struct {
	ExcelPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			TranscriptionPath: getEnv("VOYNSTAT_TRANSCRIPTION", "data/transcription.tsv"),
			ResultsDir:        getEnv("VOYNSTAT_RESULTS_DIR", "results"),
		},
		Stats: StatsConfig{
			Shuffles: 1000,
			Seed:     1,
		},
		Server: ServerConfig{
			Port: getEnv("VOYNSTAT_PORT", "8080"),
		},
		Ledger: LedgerConfig{
			URL: os.Getenv("VOYNSTAT_LEDGER_URL"),
		},
		Export: ExportConfig{
			ExcelPath: os.Getenv("VOYNSTAT_EXCEL_PATH"),
		},
	}

	if v := os.Getenv("VOYNSTAT_SHUFFLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperrors.Wrap(err, "invalid VOYNSTAT_SHUFFLES")
		}
		cfg.Stats.Shuffles = n
	}
	if v := os.Getenv("VOYNSTAT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, apperrors.Wrap(err, "invalid VOYNSTAT_SEED")
		}
		cfg.Stats.Seed = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
