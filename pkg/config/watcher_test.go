// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsChanges(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	initial := `chaos:
  instability:
    enabled: true
    rate: 0.25
`
	if err := os.WriteFile(configPath, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	watcher, err := NewWatcher([]string{configPath}, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	// Track changes
	changes := make(chan *Config, 1)
	watcher.OnChange(func(cfg *Config) {
		changes <- cfg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher.Start(ctx)
	defer watcher.Stop()

	// Verify initial config
	cfg := watcher.Config()
	if cfg.Chaos.Instability.Rate != 0.25 {
		t.Errorf("expected rate 0.25, got %v", cfg.Chaos.Instability.Rate)
	}

	// Wait a bit to ensure watcher is running
	time.Sleep(100 * time.Millisecond)

	updated := `chaos:
  instability:
    enabled: true
    rate: 0.75
`
	if err := os.WriteFile(configPath, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to write updated config: %v", err)
	}

	select {
	case newCfg := <-changes:
		if newCfg.Chaos.Instability.Rate != 0.75 {
			t.Errorf("expected rate 0.75, got %v", newCfg.Chaos.Instability.Rate)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for config change notification")
	}
}

func TestWatcherMultipleListeners(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	initial := `journal:
  path: v1.db
`
	if err := os.WriteFile(configPath, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	watcher, err := NewWatcher([]string{configPath}, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	// Multiple listeners
	count1 := 0
	count2 := 0
	watcher.OnChange(func(*Config) { count1++ })
	watcher.OnChange(func(*Config) { count2++ })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher.Start(ctx)
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configPath, []byte(`journal:
  path: v2.db
`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both listeners called once, got count1=%d, count2=%d", count1, count2)
	}
}

func TestWatcherOnChaosChange(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	initial := `chaos:
  instability:
    enabled: true
    rate: 0.25
`
	if err := os.WriteFile(configPath, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	watcher, err := NewWatcher([]string{configPath}, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	chaosChanges := make(chan ChaosConfig, 2)
	watcher.OnChaosChange(func(cc ChaosConfig) {
		chaosChanges <- cc
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher.Start(ctx)
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)

	// A reload that leaves the chaos section untouched must not notify.
	journalOnly := initial + `journal:
  path: other.db
`
	if err := os.WriteFile(configPath, []byte(journalOnly), 0644); err != nil {
		t.Fatalf("failed to write journal-only update: %v", err)
	}
	select {
	case cc := <-chaosChanges:
		t.Fatalf("unexpected chaos notification for journal-only change: %+v", cc)
	case <-time.After(300 * time.Millisecond):
	}

	updated := `chaos:
  instability:
    enabled: true
    rate: 0.75
journal:
  path: other.db
`
	if err := os.WriteFile(configPath, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to write chaos update: %v", err)
	}

	select {
	case cc := <-chaosChanges:
		if cc.Instability.Rate != 0.75 {
			t.Errorf("expected reloaded rate 0.75, got %v", cc.Instability.Rate)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for chaos policy notification")
	}
}

func TestWatcherStops(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(`log: {}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	watcher, err := NewWatcher([]string{configPath}, WithWatchInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx := context.Background()
	watcher.Start(ctx)

	// Stop should complete quickly
	done := make(chan struct{})
	go func() {
		watcher.Stop()
		close(done)
	}()

	select {
	case <-done:
		// Good
	case <-time.After(1 * time.Second):
		t.Error("watcher.Stop() did not complete in time")
	}
}

func TestReloadableConfig(t *testing.T) {
	cfg1 := &Config{
		Journal: JournalConfig{Path: "one.db"},
	}
	cfg2 := &Config{
		Journal: JournalConfig{Path: "two.db"},
	}

	rc := NewReloadableConfig(cfg1)

	// Initial value
	if rc.Journal().Path != "one.db" {
		t.Errorf("expected one.db, got %q", rc.Journal().Path)
	}

	// Update
	rc.Update(cfg2)

	// New value
	if rc.Journal().Path != "two.db" {
		t.Errorf("expected two.db, got %q", rc.Journal().Path)
	}

	// Get full config
	if rc.Get().Journal.Path != "two.db" {
		t.Errorf("expected two.db from Get(), got %q", rc.Get().Journal.Path)
	}
}

func TestWatchConfigWithProfiles(t *testing.T) {
	tmpDir := t.TempDir()

	basePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(basePath, []byte(`log:
  level: info
`), 0644); err != nil {
		t.Fatalf("failed to write base config: %v", err)
	}

	devPath := filepath.Join(tmpDir, "config.dev.yaml")
	if err := os.WriteFile(devPath, []byte(`log:
  level: debug
`), 0644); err != nil {
		t.Fatalf("failed to write dev config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, cfg, err := WatchConfig(ctx, basePath, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	defer watcher.Stop()

	// Base config is used when no profile is specified.
	if cfg.Log.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Log.Level)
	}
}
