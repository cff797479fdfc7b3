package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"voynstat/domain/core"
	"voynstat/internal/probes"
)

type probeJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleListProbes lists the registered probes, whether run or not
func (s *Server) handleListProbes(w http.ResponseWriter, r *http.Request) {
	all := probes.All()
	out := make([]probeJSON, len(all))
	for i, p := range all {
		out[i] = probeJSON{Name: p.Name(), Description: p.Describe()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleListReports lists probe names with stored reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.ListReports()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// handleGetReport returns one stored report as JSON
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	probe := chi.URLParam(r, "probe")
	rep, err := s.store.LoadReport(probe)
	if err != nil {
		if core.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

// handleNarrative renders a report's narrative as HTML via markdown
func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	probe := chi.URLParam(r, "probe")
	rep, err := s.store.LoadReport(probe)
	if err != nil {
		if core.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", rep.Probe)
	fmt.Fprintf(&md, "Run `%s` over %d tokens, verdict **%s**.\n\n", rep.RunID, rep.TokenCount, rep.Verdict)
	for _, line := range rep.Narrative {
		fmt.Fprintf(&md, "- %s\n", line)
	}

	html := markdown.ToHTML([]byte(md.String()), nil, nil)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed: %v", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
