package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voynstat/adapters/results"
	"voynstat/domain/core"
	"voynstat/domain/report"
	"voynstat/domain/verdict"
	"voynstat/internal/probes"
)

func newTestServer(t *testing.T) (*Server, *results.Store) {
	t.Helper()
	store := results.NewStore(t.TempDir())
	return NewServer(store), store
}

func storedReport(t *testing.T, store *results.Store, probe string) *report.Report {
	t.Helper()
	rep := report.New(probe, core.RunID(core.NewID()), core.NewHash([]byte("corpus")), 100)
	rep.AddFinding(report.Finding{
		Test:       "chi_square",
		Statistic:  12.3,
		PValue:     0.002,
		SampleSize: 100,
		Verdict:    verdict.StatusPass,
	})
	rep.Narrate("association detected")
	rep.Finalize()
	_, err := store.WriteReport(rep)
	require.NoError(t, err)
	return rep
}

func TestServer_ListProbes(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/probes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []probeJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, len(probes.Names()))
	for _, p := range listed {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
	}
}

func TestServer_ListReports(t *testing.T) {
	s, store := newTestServer(t)
	storedReport(t, store, "section-profile")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"section-profile"}, names)
}

func TestServer_GetReport(t *testing.T) {
	s, store := newTestServer(t)
	want := storedReport(t, store, "currier-contrast")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/currier-contrast", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, want.Probe, got.Probe)
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, verdict.StatusPass, got.Verdict)
}

func TestServer_GetReport_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/no-such-probe", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Narrative(t *testing.T) {
	s, store := newTestServer(t)
	storedReport(t, store, "positional-profile")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/positional-profile/narrative", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "positional-profile"))
	assert.Contains(t, body, "association detected")
	assert.Contains(t, body, "VERDICT")
}
