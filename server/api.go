package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dogpound/glizzy/store"
)

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

// handleTotals serves the current per-user totals, descending.
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.store.Totals(r.Context())
	if err != nil {
		s.logger.Printf("fetch totals: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to fetch hot dog totals")
		return
	}
	if totals == nil {
		totals = []store.Total{}
	}
	s.writeJSON(w, http.StatusOK, totals)
}

// handleEvents serves the full immutable entry log, newest first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Entries(r.Context())
	if err != nil {
		s.logger.Printf("fetch events: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to fetch hot dog events")
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleStats serves the computed statistics bundle.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.stats.ComputeBundle(r.Context())
	if err != nil {
		s.logger.Printf("compute stats: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	s.writeJSON(w, http.StatusOK, bundle)
}

// handleExport streams the raw SQLite file for backup or offline analysis.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.dbPath == "" {
		s.writeError(w, http.StatusInternalServerError, "no datastore file to export")
		return
	}

	f, err := os.Open(s.dbPath)
	if err != nil {
		s.logger.Printf("export database: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to export database")
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.logger.Printf("export database: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to export database")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="hotdog-data.db"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", fi.Size()))
	if _, err := io.Copy(w, f); err != nil {
		// Headers are gone; nothing left to do but log.
		s.logger.Printf("export database: %v", err)
	}
}
