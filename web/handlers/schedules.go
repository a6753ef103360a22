package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jwkim/assistant/internal/storage"
)

// CreateSchedule handles POST /api/schedules.
func (a *API) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	schedule, err := a.store.CreateSchedule(r.Context(), storage.ScheduleCreate{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to create schedule", err)
		return
	}

	a.notify("schedule.created", schedule)
	respondJSON(w, http.StatusCreated, schedule)
}

// ListSchedules handles GET /api/schedules. The date, from, and to
// parameters (YYYY-MM-DD) compare against the calendar date of start_time.
func (a *API) ListSchedules(w http.ResponseWriter, r *http.Request) {
	filter := storage.ScheduleFilter{
		Date: queryParam(r, "date"),
		From: queryParam(r, "from"),
		To:   queryParam(r, "to"),
		Tag:  queryParam(r, "tag"),
	}

	schedules, err := a.store.ListSchedules(r.Context(), filter, parseLimit(r))
	if err != nil {
		respondStorageError(w, "failed to list schedules", err)
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: schedules, Total: len(schedules)})
}

// GetSchedule handles GET /api/schedules/{id}.
func (a *API) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	schedule, err := a.store.GetSchedule(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get schedule", err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// UpdateSchedule handles PATCH /api/schedules/{id}. Only fields present in
// the body are changed; sending end_time as null clears the end time.
func (a *API) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	schedule, err := a.store.UpdateSchedule(r.Context(), id, storage.ScheduleUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SetEndTime:  req.EndTimeSet,
		Location:    req.Location,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to update schedule", err)
		return
	}

	a.notify("schedule.updated", schedule)
	respondJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /api/schedules/{id}.
func (a *API) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteSchedule(r.Context(), id); err != nil {
		respondStorageError(w, "failed to delete schedule", err)
		return
	}

	a.notify("schedule.deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
