package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigServiceDefaults(t *testing.T) {
	dir := t.TempDir()
	svc := newConfigServiceAt(filepath.Join(dir, "config.json"))

	cfg := svc.Load()
	if cfg.Hotkey != "ctrl+shift+c" {
		t.Errorf("default hotkey = %q; want %q", cfg.Hotkey, "ctrl+shift+c")
	}
	if !cfg.Preserve() {
		t.Error("Preserve() = false by default; clipboard protection must be opt-out")
	}
	if cfg.PollInterval() != 5*time.Millisecond {
		t.Errorf("default poll interval = %v; want 5ms", cfg.PollInterval())
	}
	if cfg.PollTimeout() != 5*time.Second {
		t.Errorf("default poll timeout = %v; want 5s", cfg.PollTimeout())
	}
	if cfg.MenuAnchorIndex != 3 {
		t.Errorf("default menu anchor = %d; want 3", cfg.MenuAnchorIndex)
	}
}

func TestConfigServiceSaveLoad(t *testing.T) {
	dir := t.TempDir()
	svc := newConfigServiceAt(filepath.Join(dir, "config.json"))

	off := false
	want := Config{
		Hotkey:            "cmd+option+g",
		PreserveClipboard: &off,
		ShortcutFallback:  true,
		PollIntervalMS:    10,
		PollTimeoutMS:     2000,
		RestoreDelayMS:    50,
		MenuAnchorIndex:   2,
	}
	if err := svc.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := svc.Load()
	if got.Hotkey != want.Hotkey || got.ShortcutFallback != want.ShortcutFallback ||
		got.PollIntervalMS != want.PollIntervalMS || got.PollTimeoutMS != want.PollTimeoutMS ||
		got.RestoreDelayMS != want.RestoreDelayMS || got.MenuAnchorIndex != want.MenuAnchorIndex {
		t.Errorf("Load() = %+v; want %+v", got, want)
	}
	if got.Preserve() {
		t.Error("Preserve() = true; want explicit false round-tripped")
	}
}

func TestConfigServiceCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newConfigServiceAt(path)
	cfg := svc.Load()

	// Should get defaults without panicking
	if cfg.Hotkey != "ctrl+shift+c" {
		t.Errorf("corrupt fallback hotkey = %q; want %q", cfg.Hotkey, "ctrl+shift+c")
	}

	// And the corrupt file should have been overwritten with valid JSON
	if reloaded := svc.Load(); reloaded.Hotkey != cfg.Hotkey {
		t.Errorf("reloaded hotkey = %q; want %q", reloaded.Hotkey, cfg.Hotkey)
	}
}

func TestConfigServicePartialFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Config with only a hotkey — everything else should backfill.
	if err := os.WriteFile(path, []byte(`{"hotkey":"ctrl+g"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newConfigServiceAt(path)
	cfg := svc.Load()
	if cfg.Hotkey != "ctrl+g" {
		t.Errorf("hotkey = %q; want %q", cfg.Hotkey, "ctrl+g")
	}
	if cfg.PollIntervalMS != 5 || cfg.PollTimeoutMS != 5000 {
		t.Errorf("poll settings = %d/%d; want defaults 5/5000", cfg.PollIntervalMS, cfg.PollTimeoutMS)
	}
	if cfg.MenuAnchorIndex != 3 {
		t.Errorf("menu anchor = %d; want default 3", cfg.MenuAnchorIndex)
	}
	if !cfg.Preserve() {
		t.Error("Preserve() = false for absent field; want true")
	}
}

func TestConfigSelectionOptions(t *testing.T) {
	cfg := defaultConfig()
	cfg.ShortcutFallback = true
	cfg.MenuAnchorIndex = 2

	opts := cfg.SelectionOptions()
	if opts.MenuAnchor != 2 {
		t.Errorf("MenuAnchor = %d; want 2", opts.MenuAnchor)
	}
	if opts.PollInterval != 5*time.Millisecond || opts.PollTimeout != 5*time.Second {
		t.Errorf("poll options = %v/%v; want 5ms/5s", opts.PollInterval, opts.PollTimeout)
	}
	if !opts.ShortcutFallback {
		t.Error("ShortcutFallback not carried into options")
	}
}
