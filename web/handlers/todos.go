package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

// CreateTodo handles POST /api/todos.
func (a *API) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	todo, err := a.store.CreateTodo(r.Context(), storage.TodoCreate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    types.Priority(req.Priority),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondStorageError(w, "failed to create todo", err)
		return
	}

	a.notify("todo.created", todo)
	respondJSON(w, http.StatusCreated, todo)
}

// ListTodos handles GET /api/todos. Supports completed, priority, tag, and
// limit parameters. Results are ordered by priority, then due date with
// undated todos last.
func (a *API) ListTodos(w http.ResponseWriter, r *http.Request) {
	filter := storage.TodoFilter{
		Tag: queryParam(r, "tag"),
	}

	if v := r.URL.Query().Get("completed"); v != "" {
		completed := v == "true" || v == "1"
		filter.Completed = &completed
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		p := types.Priority(v)
		if !types.IsValidPriority(p) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid priority %q", v), nil)
			return
		}
		filter.Priority = &p
	}

	todos, err := a.store.ListTodos(r.Context(), filter, parseLimit(r))
	if err != nil {
		respondStorageError(w, "failed to list todos", err)
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: todos, Total: len(todos)})
}

// GetTodo handles GET /api/todos/{id}.
func (a *API) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := a.store.GetTodo(r.Context(), id)
	if err != nil {
		respondStorageError(w, "failed to get todo", err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PATCH /api/todos/{id}. Only fields present in the body
// are changed; sending due_date as null clears the due date.
func (a *API) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	update := storage.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		SetDueDate:  req.DueDateSet,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		p := types.Priority(*req.Priority)
		update.Priority = &p
	}

	todo, err := a.store.UpdateTodo(r.Context(), id, update)
	if err != nil {
		respondStorageError(w, "failed to update todo", err)
		return
	}

	a.notify("todo.updated", todo)
	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/{id}.
func (a *API) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteTodo(r.Context(), id); err != nil {
		respondStorageError(w, "failed to delete todo", err)
		return
	}

	a.notify("todo.deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
