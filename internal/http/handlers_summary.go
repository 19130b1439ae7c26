package http

import (
	"net/http"
	"strings"

	"masraf/internal/core"
)

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	if _, err := s.users.GetUser(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}

	typ := core.SummaryType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" {
		if err := typ.Validate(); err != nil {
			respondError(w, r, err)
			return
		}
	}

	summaries, err := s.users.ListSummaries(r.Context(), userID, typ)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]summaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, toSummaryResponse(sum))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleSummaryRun triggers a summary run on demand, outside the scheduled
// window. Same semantics as the worker's scheduled run.
func (s *Server) handleSummaryRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.summaryJob.Run(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Date             string `json:"date"`
		Users            int    `json:"users"`
		SummariesWritten int    `json:"summaries_written"`
		Notified         int    `json:"notified"`
		Failed           int    `json:"failed"`
	}{
		Date:             report.Today.String(),
		Users:            report.Users,
		SummariesWritten: report.SummariesWritten,
		Notified:         report.Notified,
		Failed:           report.Failed,
	})
}
