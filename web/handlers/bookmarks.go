package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jwkim/assistant/internal/storage"
)

// CreateBookmark handles POST /api/bookmarks.
func (a *API) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	bookmark, err := a.store.CreateBookmark(r.Context(), storage.BookmarkCreate{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to create bookmark", err)
		return
	}

	a.notify("bookmark.created", bookmark)
	respondJSON(w, http.StatusCreated, bookmark)
}

// ListBookmarks handles GET /api/bookmarks with optional query, tag, and
// limit parameters. The query matches title, description, and URL.
func (a *API) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	filter := storage.BookmarkFilter{
		Query: queryParam(r, "query"),
		Tag:   queryParam(r, "tag"),
	}

	bookmarks, err := a.store.ListBookmarks(r.Context(), filter, parseLimit(r))
	if err != nil {
		respondStorageError(w, "failed to list bookmarks", err)
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: bookmarks, Total: len(bookmarks)})
}

// GetBookmark handles GET /api/bookmarks/{id}.
func (a *API) GetBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	bookmark, err := a.store.GetBookmark(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get bookmark", err)
		return
	}
	respondJSON(w, http.StatusOK, bookmark)
}

// UpdateBookmark handles PATCH /api/bookmarks/{id}.
func (a *API) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	bookmark, err := a.store.UpdateBookmark(r.Context(), id, storage.BookmarkUpdate{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to update bookmark", err)
		return
	}

	a.notify("bookmark.updated", bookmark)
	respondJSON(w, http.StatusOK, bookmark)
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func (a *API) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteBookmark(r.Context(), id); err != nil {
		respondStorageError(w, "failed to delete bookmark", err)
		return
	}

	a.notify("bookmark.deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
