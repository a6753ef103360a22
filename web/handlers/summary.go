package handlers

import (
	"net/http"
)

// Search handles GET /api/search. The query parameter is required; limit
// caps results per entity type.
func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	// Accept q as a shorthand.
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	results, err := a.service.SearchAll(r.Context(), query, parseLimit(r))
	if err != nil {
		respondStorageError(w, "search failed", err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// GetSummary handles GET /api/summary, returning per-entity counts.
func (a *API) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.Summary(r.Context())
	if err != nil {
		respondStorageError(w, "failed to build summary", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetTodaySummary handles GET /api/summary/today, returning the daily
// briefing: today's schedules, due todos, recent memos, and counts.
func (a *API) GetTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.TodaySummary(r.Context())
	if err != nil {
		respondStorageError(w, "failed to build today summary", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetWeekSchedules handles GET /api/schedules/week, returning schedules
// from Monday through Sunday of the current week.
func (a *API) GetWeekSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := a.service.WeekSchedules(r.Context())
	if err != nil {
		respondStorageError(w, "failed to list week schedules", err)
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: schedules, Total: len(schedules)})
}
