// Command assistant-web runs the REST API and WebSocket server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jwkim/assistant/internal/backup"
	"github.com/jwkim/assistant/internal/config"
	"github.com/jwkim/assistant/internal/server"
	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/internal/storage/postgres"
	"github.com/jwkim/assistant/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional, env vars otherwise)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic snapshots only make sense for the file-backed engine.
	if cfg.Backup.Enabled && cfg.Storage.Engine == "sqlite" {
		interval, err := time.ParseDuration(cfg.Backup.Interval)
		if err != nil {
			log.Fatalf("invalid backup interval %q: %v", cfg.Backup.Interval, err)
		}
		svc, err := backup.NewService(backup.Options{
			DBPath:    cfg.Storage.DSN,
			Dir:       cfg.Backup.Path,
			Interval:  interval,
			Retention: cfg.Backup.Retention,
			Verify:    true,
		})
		if err != nil {
			log.Fatalf("failed to create backup service: %v", err)
		}
		go func() {
			if err := svc.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("backup service stopped: %v", err)
			}
		}()
	}

	addr, _, err := server.Start(ctx, cfg, store)
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	log.Printf("assistant API running at http://%s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give in-flight connections time to drain.
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}

// openStore opens the configured storage backend. The sqlite DSN is a file
// path; its parent directory is created on demand.
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
