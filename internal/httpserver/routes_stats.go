// internal/httpserver/routes_stats.go
//
// GET /stats: win/loss summary and the most recent finished matches.
// Optional query parameter "limit" (1..100, default 20).

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/lexhawkins/GameSoftware/internal/history"
)

// statsRes is returned by /stats.
type statsRes struct {
	Summary history.Summary `json:"summary"`
	Recent  []history.Match `json:"recent"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	sum, err := s.history.Summary(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("stats summary")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	recent, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("stats recent")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Summary: sum, Recent: recent})
}
