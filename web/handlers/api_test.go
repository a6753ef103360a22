package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwkim/assistant/internal/server"
	"github.com/jwkim/assistant/internal/services"
	"github.com/jwkim/assistant/internal/storage/sqlite"
	"github.com/jwkim/assistant/pkg/types"
	"github.com/jwkim/assistant/web/handlers"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := services.NewAssistantService(store)
	api := handlers.NewAPI(store, svc, nil)
	return server.NewRouter(api)
}

// do runs a request against the router and decodes the JSON body into dst
// when dst is non-nil.
func do(t *testing.T, mux *http.ServeMux, method, path, body string, dst interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if dst != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst),
			"body: %s", rec.Body.String())
	}
	return rec
}

func TestMemoEndpoints(t *testing.T) {
	mux := newTestRouter(t)

	var created types.Memo
	rec := do(t, mux, http.MethodPost, "/api/memos",
		`{"title":"groceries","content":"milk and eggs","tags":["errand"]}`, &created)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotZero(t, created.ID)

	var got types.Memo
	rec = do(t, mux, http.MethodGet, "/api/memos/1", "", &got)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "groceries", got.Title)

	var list handlers.ListResponse
	rec = do(t, mux, http.MethodGet, "/api/memos?query=MILK", "", &list)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, list.Total)

	rec = do(t, mux, http.MethodGet, "/api/memos?tag=nothing", "", &list)
	assert.Equal(t, 0, list.Total)

	var updated types.Memo
	rec = do(t, mux, http.MethodPatch, "/api/memos/1", `{"content":"just milk"}`, &updated)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "groceries", updated.Title)
	assert.Equal(t, "just milk", updated.Content)

	rec = do(t, mux, http.MethodDelete, "/api/memos/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/memos/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemoEndpoints_Validation(t *testing.T) {
	mux := newTestRouter(t)

	rec := do(t, mux, http.MethodPost, "/api/memos", `{"title":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/memos", `{bad json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/memos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoEndpoints_DueDateTriState(t *testing.T) {
	mux := newTestRouter(t)

	var created types.Todo
	rec := do(t, mux, http.MethodPost, "/api/todos",
		`{"title":"renew passport","priority":"high","due_date":"2026-10-01"}`, &created)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created.DueDate)

	// PATCH without due_date keeps it.
	var kept types.Todo
	do(t, mux, http.MethodPatch, "/api/todos/1", `{"completed":true}`, &kept)
	require.NotNil(t, kept.DueDate)
	assert.Equal(t, "2026-10-01", *kept.DueDate)
	assert.True(t, kept.Completed)

	// PATCH with explicit null clears it.
	var cleared types.Todo
	do(t, mux, http.MethodPatch, "/api/todos/1", `{"due_date":null}`, &cleared)
	assert.Nil(t, cleared.DueDate)
}

func TestTodoEndpoints_Filters(t *testing.T) {
	mux := newTestRouter(t)

	do(t, mux, http.MethodPost, "/api/todos", `{"title":"low item","priority":"low"}`, nil)
	do(t, mux, http.MethodPost, "/api/todos", `{"title":"high item","priority":"high"}`, nil)

	var list handlers.ListResponse
	rec := do(t, mux, http.MethodGet, "/api/todos?priority=high", "", &list)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, list.Total)

	rec = do(t, mux, http.MethodGet, "/api/todos?priority=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/todos?completed=false", "", &list)
	assert.Equal(t, 2, list.Total)
}

func TestScheduleEndpoints(t *testing.T) {
	mux := newTestRouter(t)

	start := time.Now().UTC().Truncate(time.Hour)
	end := start.Add(time.Hour)
	body, _ := json.Marshal(handlers.CreateScheduleRequest{
		Title:     "kickoff",
		StartTime: start,
		EndTime:   &end,
		Location:  "room 4",
	})

	var created types.Schedule
	rec := do(t, mux, http.MethodPost, "/api/schedules", string(body), &created)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created.EndTime)

	date := start.Format("2006-01-02")
	var list handlers.ListResponse
	rec = do(t, mux, http.MethodGet, "/api/schedules?date="+date, "", &list)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, list.Total)

	// End before start is rejected.
	bad, _ := json.Marshal(handlers.CreateScheduleRequest{
		Title:     "bad",
		StartTime: end,
		EndTime:   &start,
	})
	rec = do(t, mux, http.MethodPost, "/api/schedules", string(bad), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Null end_time clears it.
	var cleared types.Schedule
	do(t, mux, http.MethodPatch, "/api/schedules/1", `{"end_time":null}`, &cleared)
	assert.Nil(t, cleared.EndTime)

	rec = do(t, mux, http.MethodGet, "/api/schedules/week", "", &list)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookmarkEndpoints(t *testing.T) {
	mux := newTestRouter(t)

	var created types.Bookmark
	rec := do(t, mux, http.MethodPost, "/api/bookmarks",
		`{"url":"https://pkg.go.dev","title":"package index"}`, &created)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/bookmarks", `{"title":"no url"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var list handlers.ListResponse
	rec = do(t, mux, http.MethodGet, "/api/bookmarks?query=pkg.go.dev", "", &list)
	assert.Equal(t, 1, list.Total)

	var updated types.Bookmark
	do(t, mux, http.MethodPatch, "/api/bookmarks/1", `{"description":"stdlib docs"}`, &updated)
	assert.Equal(t, "package index", updated.Title)
	assert.Equal(t, "stdlib docs", updated.Description)

	rec = do(t, mux, http.MethodDelete, "/api/bookmarks/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	do(t, mux, http.MethodPost, "/api/memos", `{"title":"trip planning"}`, nil)
	do(t, mux, http.MethodPost, "/api/todos", `{"title":"book trip flights"}`, nil)

	var results types.SearchResults
	rec := do(t, mux, http.MethodGet, "/api/search?query=trip", "", &results)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, results.Memos, 1)
	assert.Len(t, results.Todos, 1)

	// The short form works too.
	rec = do(t, mux, http.MethodGet, "/api/search?q=trip", "", &results)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoints(t *testing.T) {
	mux := newTestRouter(t)

	do(t, mux, http.MethodPost, "/api/memos", `{"title":"note"}`, nil)
	do(t, mux, http.MethodPost, "/api/todos", `{"title":"task"}`, nil)

	var summary types.Summary
	rec := do(t, mux, http.MethodGet, "/api/summary", "", &summary)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, summary.Memos.Total)
	assert.Equal(t, 1, summary.Todos.Incomplete)

	var today types.TodaySummary
	rec = do(t, mux, http.MethodGet, "/api/summary/today", "", &today)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Equal(t, 1, today.IncompleteTodoCount)
}
