// Command assistant-backup snapshots and restores the sqlite database.
//
// Modes:
//
//	assistant-backup                  run continuously on the configured interval
//	assistant-backup -oneshot         take a single backup and exit
//	assistant-backup -list            list available backups, newest first
//	assistant-backup -restore <path>  restore the database from a snapshot
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwkim/assistant/internal/backup"
	"github.com/jwkim/assistant/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional, env vars otherwise)")
	dbPath := flag.String("db", "", "Database file to back up (overrides config)")
	backupDir := flag.String("backup-dir", "", "Directory for snapshots (overrides config)")
	interval := flag.Duration("interval", 0, "Backup interval for continuous mode (overrides config)")
	retention := flag.Int("retention", 0, "Number of snapshots to keep (overrides config)")
	verify := flag.Bool("verify", true, "Run an integrity check on each snapshot")
	oneshot := flag.Bool("oneshot", false, "Take one backup and exit")
	list := flag.Bool("list", false, "List available backups and exit")
	restore := flag.String("restore", "", "Restore the database from the given snapshot and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Engine != "sqlite" {
		log.Fatalf("backups are only supported for the sqlite engine, got %q", cfg.Storage.Engine)
	}

	opts := backup.Options{
		DBPath:    cfg.Storage.DSN,
		Dir:       cfg.Backup.Path,
		Retention: cfg.Backup.Retention,
		Verify:    *verify,
	}
	if cfg.Backup.Interval != "" {
		d, err := time.ParseDuration(cfg.Backup.Interval)
		if err != nil {
			log.Fatalf("invalid backup interval %q: %v", cfg.Backup.Interval, err)
		}
		opts.Interval = d
	}
	if *dbPath != "" {
		opts.DBPath = *dbPath
	}
	if *backupDir != "" {
		opts.Dir = *backupDir
	}
	if *interval > 0 {
		opts.Interval = *interval
	}
	if *retention > 0 {
		opts.Retention = *retention
	}

	svc, err := backup.NewService(opts)
	if err != nil {
		log.Fatalf("failed to create backup service: %v", err)
	}

	switch {
	case *restore != "":
		runRestore(svc, *restore)
	case *list:
		runList(svc)
	case *oneshot:
		runOneshot(svc)
	default:
		runContinuous(svc)
	}
}

func runRestore(svc *backup.Service, snapshot string) {
	fmt.Printf("Restoring database from %s\n", snapshot)
	if err := svc.Restore(snapshot); err != nil {
		log.Fatalf("restore failed: %v", err)
	}
	fmt.Println("Restore complete.")
}

func runList(svc *backup.Service) {
	paths, err := svc.List()
	if err != nil {
		log.Fatalf("failed to list backups: %v", err)
	}
	if len(paths) == 0 {
		fmt.Println("No backups found.")
		return
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Printf("  %s\n", p)
			continue
		}
		fmt.Printf("  %s  %d bytes  %s\n", p, info.Size(), info.ModTime().Format(time.RFC3339))
	}
}

func runOneshot(svc *backup.Service) {
	res, err := svc.BackupNow(context.Background())
	if err != nil {
		log.Fatalf("backup failed: %v", err)
	}
	fmt.Printf("Backup written to %s (%d bytes in %s, verified=%t)\n",
		res.Path, res.Size, res.Duration.Round(time.Millisecond), res.Verified)
}

func runContinuous(svc *backup.Service) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	log.Println("backup service started")
	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("backup service error: %v", err)
	}
	log.Println("backup service stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}
