// Package server provides HTTP server initialization and lifecycle
// management for the assistant REST API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jwkim/assistant/internal/config"
	"github.com/jwkim/assistant/internal/services"
	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/web/handlers"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// Start initializes and starts the HTTP server. It returns the actual
// address being listened on (useful for testing with port 0) and the
// WebSocketHub so callers can broadcast their own events.
//
// The server shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, store storage.Store) (string, *handlers.WebSocketHub, error) {
	service := services.NewAssistantService(store)

	wsHub := handlers.NewWebSocketHub(
		fmt.Sprintf("localhost:%d", cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
	)
	go wsHub.Run()

	api := handlers.NewAPI(store, service, wsHub)

	// 10 req/sec sustained with a burst of 20.
	rateLimiter := handlers.NewRateLimiter(10.0, 20)

	mux := http.NewServeMux()
	apiMux := NewRouter(api)

	// Health endpoint stays outside the auth wrapper so monitors can reach
	// it without a token.
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q,"engine":%q}`, Version, cfg.Storage.Engine)
	})

	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket endpoint; origin validation happens during the upgrade.
	mux.Handle("/ws", wsHub)

	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = handlers.SecurityHeaders(handler)

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
		wsHub.Stop()
	}()

	return actualAddr, wsHub, nil
}

// NewRouter builds the /api route table. Split out from Start so handler
// tests can exercise routing without opening a listener.
func NewRouter(api *handlers.API) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/memos", api.CreateMemo)
	mux.HandleFunc("GET /api/memos", api.ListMemos)
	mux.HandleFunc("GET /api/memos/{id}", api.GetMemo)
	mux.HandleFunc("PATCH /api/memos/{id}", api.UpdateMemo)
	mux.HandleFunc("DELETE /api/memos/{id}", api.DeleteMemo)

	mux.HandleFunc("POST /api/todos", api.CreateTodo)
	mux.HandleFunc("GET /api/todos", api.ListTodos)
	mux.HandleFunc("GET /api/todos/{id}", api.GetTodo)
	mux.HandleFunc("PATCH /api/todos/{id}", api.UpdateTodo)
	mux.HandleFunc("DELETE /api/todos/{id}", api.DeleteTodo)

	mux.HandleFunc("POST /api/schedules", api.CreateSchedule)
	mux.HandleFunc("GET /api/schedules", api.ListSchedules)
	mux.HandleFunc("GET /api/schedules/week", api.GetWeekSchedules)
	mux.HandleFunc("GET /api/schedules/{id}", api.GetSchedule)
	mux.HandleFunc("PATCH /api/schedules/{id}", api.UpdateSchedule)
	mux.HandleFunc("DELETE /api/schedules/{id}", api.DeleteSchedule)

	mux.HandleFunc("POST /api/bookmarks", api.CreateBookmark)
	mux.HandleFunc("GET /api/bookmarks", api.ListBookmarks)
	mux.HandleFunc("GET /api/bookmarks/{id}", api.GetBookmark)
	mux.HandleFunc("PATCH /api/bookmarks/{id}", api.UpdateBookmark)
	mux.HandleFunc("DELETE /api/bookmarks/{id}", api.DeleteBookmark)

	mux.HandleFunc("GET /api/search", api.Search)
	mux.HandleFunc("GET /api/summary", api.GetSummary)
	mux.HandleFunc("GET /api/summary/today", api.GetTodaySummary)

	return mux
}
