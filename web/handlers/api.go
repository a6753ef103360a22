// Package handlers provides HTTP handlers and middleware for the assistant
// REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jwkim/assistant/internal/services"
	"github.com/jwkim/assistant/internal/storage"
)

// maxListLimit caps the limit query parameter to prevent resource exhaustion.
const maxListLimit = 1000

// API contains the HTTP handlers for the REST API.
type API struct {
	store   storage.Store
	service *services.AssistantService
	hub     *WebSocketHub
}

// NewAPI creates the handler set. hub may be nil when event broadcasting is
// not wanted (tests, or a server started without the WebSocket endpoint).
func NewAPI(store storage.Store, service *services.AssistantService, hub *WebSocketHub) *API {
	return &API{
		store:   store,
		service: service,
		hub:     hub,
	}
}

// notify broadcasts a mutation event to WebSocket clients.
func (a *API) notify(eventType string, data interface{}) {
	if a.hub == nil {
		return
	}
	a.hub.Broadcast(Event{Type: eventType, Data: data})
}

// CreateMemo handles POST /api/memos.
func (a *API) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req CreateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	memo, err := a.store.CreateMemo(r.Context(), storage.MemoCreate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to create memo", err)
		return
	}

	a.notify("memo.created", memo)
	respondJSON(w, http.StatusCreated, memo)
}

// ListMemos handles GET /api/memos with optional query, tag, and limit
// parameters. Results come back newest first.
func (a *API) ListMemos(w http.ResponseWriter, r *http.Request) {
	filter := storage.MemoFilter{
		Query: queryParam(r, "query"),
		Tag:   queryParam(r, "tag"),
	}

	memos, err := a.store.ListMemos(r.Context(), filter, parseLimit(r))
	if err != nil {
		respondStorageError(w, "failed to list memos", err)
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: memos, Total: len(memos)})
}

// GetMemo handles GET /api/memos/{id}.
func (a *API) GetMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	memo, err := a.store.GetMemo(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get memo", err)
		return
	}
	respondJSON(w, http.StatusOK, memo)
}

// UpdateMemo handles PATCH /api/memos/{id}. Only fields present in the body
// are changed.
func (a *API) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	memo, err := a.store.UpdateMemo(r.Context(), id, storage.MemoUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to update memo", err)
		return
	}

	a.notify("memo.updated", memo)
	respondJSON(w, http.StatusOK, memo)
}

// DeleteMemo handles DELETE /api/memos/{id}.
func (a *API) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteMemo(r.Context(), id); err != nil {
		respondStorageError(w, "failed to delete memo", err)
		return
	}

	a.notify("memo.deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

// pathID extracts the {id} path parameter. On failure it writes a 400
// response and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw), nil)
		return 0, false
	}
	return id, true
}

// queryParam returns a pointer to the named query parameter, or nil when it
// is absent or empty.
func queryParam(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// parseLimit reads the limit query parameter, clamped to maxListLimit.
// Zero means the store default.
func parseLimit(r *http.Request) int {
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

// parseInt parses an integer from a string, returning defaultValue if
// parsing fails.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing more we can do.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}

// respondStorageError maps storage sentinel errors onto HTTP status codes.
func respondStorageError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, storage.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}
