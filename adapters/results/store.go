// Package results is the flat-file JSON store: probe reports go out as
// <probe>_results.json, and prior-run caches (regime maps, token class maps)
// come back in for later probes.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voynstat/domain/core"
	"voynstat/domain/report"
	apperrors "voynstat/internal/errors"
)

const reportSuffix = "_results.json"

// Store reads and writes JSON files under a single results directory
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the results directory
func (s *Store) Dir() string {
	return s.dir
}

// WriteReport serializes a probe report to <probe>_results.json and returns
// the written path.
func (s *Store) WriteReport(rep *report.Report) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.WithCode(apperrors.CodeReportWrite, err, "cannot create results directory")
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", apperrors.WithCode(apperrors.CodeReportWrite, err, fmt.Sprintf("cannot serialize report %s", rep.Probe))
	}

	path := filepath.Join(s.dir, rep.Probe+reportSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.WithCode(apperrors.CodeReportWrite, err, fmt.Sprintf("cannot write %s", path))
	}
	return path, nil
}

// LoadReport reads a previously written probe report
func (s *Store) LoadReport(probe string) (*report.Report, error) {
	path := filepath.Join(s.dir, probe+reportSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, probe)
		}
		return nil, apperrors.WithCode(apperrors.CodeCacheLoad, err, path)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeCacheLoad, err, fmt.Sprintf("cannot parse %s", path))
	}
	return &rep, nil
}

// ListReports returns the probe names with stored reports, sorted
func (s *Store) ListReports() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.WithCode(apperrors.CodeCacheLoad, err, s.dir)
	}

	var probes []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, reportSuffix) {
			probes = append(probes, strings.TrimSuffix(name, reportSuffix))
		}
	}
	sort.Strings(probes)
	return probes, nil
}

// LoadStringMap reads a prior-run categorical cache such as
// folio_regimes.json (folio -> regime) or token_classes.json
// (word -> class).
func (s *Store) LoadStringMap(name string) (map[string]string, error) {
	path := filepath.Join(s.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrCacheNotFound, name)
		}
		return nil, apperrors.WithCode(apperrors.CodeCacheLoad, err, path)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeCacheLoad, err, fmt.Sprintf("cannot parse %s", path))
	}
	return m, nil
}

// WriteStringMap persists a categorical cache for downstream probes
func (s *Store) WriteStringMap(name string, m map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperrors.WithCode(apperrors.CodeReportWrite, err, "cannot create results directory")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return apperrors.WithCode(apperrors.CodeReportWrite, err, name)
	}
	return os.WriteFile(filepath.Join(s.dir, name+".json"), data, 0o644)
}
