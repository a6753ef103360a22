// Command assistant-mcp runs the MCP server over stdio. Stdout carries the
// JSON-RPC stream, so all logging goes to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jwkim/assistant/internal/api/mcp"
	"github.com/jwkim/assistant/internal/config"
	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/internal/storage/postgres"
	"github.com/jwkim/assistant/internal/storage/sqlite"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetPrefix("assistant-mcp: ")

	configPath := flag.String("config", "", "Path to a YAML config file (optional, env vars otherwise)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	srv := mcp.NewServer(store)
	transport := mcp.NewStdioTransport(srv)
	if err := transport.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("transport error: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Engine {
	case "postgres":
		return postgres.New(cfg.Storage.DSN)
	default:
		if dir := filepath.Dir(cfg.Storage.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, err
			}
		}
		return sqlite.New(cfg.Storage.DSN)
	}
}
