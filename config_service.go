package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Config holds persistent user preferences.
// Stored as JSON at ~/.selected-text/config.json.
type Config struct {
	Hotkey            string `json:"hotkey"`             // listen-mode trigger, e.g. "ctrl+shift+c"
	PreserveClipboard *bool  `json:"preserve_clipboard"` // nil means true
	ShortcutFallback  bool   `json:"shortcut_fallback"`  // chain synthetic ⌘C after menu copy
	PollIntervalMS    int    `json:"poll_interval_ms"`   // clipboard change-poll interval
	PollTimeoutMS     int    `json:"poll_timeout_ms"`    // copy-observation timeout
	RestoreDelayMS    int    `json:"restore_delay_ms"`   // pause before clipboard restore
	MenuAnchorIndex   int    `json:"menu_anchor_index"`  // top-level menu probed first
}

// defaultConfig returns factory defaults.
func defaultConfig() Config {
	return Config{
		Hotkey:          "ctrl+shift+c",
		PollIntervalMS:  5,
		PollTimeoutMS:   5000,
		MenuAnchorIndex: defaultMenuAnchor,
	}
}

// Preserve reports whether clipboard protection is on. Absent from the file
// means on — protection is opt-out.
func (c Config) Preserve() bool {
	if c.PreserveClipboard == nil {
		return true
	}
	return *c.PreserveClipboard
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// PollTimeout returns the observation timeout as a duration.
func (c Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMS) * time.Millisecond
}

// RestoreDelay returns the pre-restore delay as a duration.
func (c Config) RestoreDelay() time.Duration {
	return time.Duration(c.RestoreDelayMS) * time.Millisecond
}

// SelectionOptions maps the config onto strategy-chain options.
func (c Config) SelectionOptions() SelectionOptions {
	return SelectionOptions{
		MenuAnchor:       c.MenuAnchorIndex,
		PollInterval:     c.PollInterval(),
		PollTimeout:      c.PollTimeout(),
		ShortcutFallback: c.ShortcutFallback,
	}
}

// ConfigService loads and saves user configuration.
type ConfigService struct {
	path string
}

// NewConfigService creates a ConfigService pointing to the standard config path.
func NewConfigService() *ConfigService {
	home, _ := os.UserHomeDir()
	return &ConfigService{
		path: filepath.Join(home, ".selected-text", "config.json"),
	}
}

// newConfigServiceAt creates a ConfigService with a custom path (tests only).
func newConfigServiceAt(path string) *ConfigService {
	return &ConfigService{path: path}
}

// Load reads config from disk. Returns defaults if the file doesn't exist.
// If the file is corrupt it logs the error and writes fresh defaults.
func (c *ConfigService) Load() Config {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return defaultConfig()
	}
	if err != nil {
		log.Printf("config: read error: %v — using defaults", err)
		return defaultConfig()
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("config: parse error: %v — resetting to defaults", err)
		defaults := defaultConfig()
		_ = c.Save(defaults) // overwrite corrupt file
		return defaults
	}
	// Fill any zero-value fields with defaults.
	d := defaultConfig()
	if cfg.Hotkey == "" {
		cfg.Hotkey = d.Hotkey
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = d.PollIntervalMS
	}
	if cfg.PollTimeoutMS <= 0 {
		cfg.PollTimeoutMS = d.PollTimeoutMS
	}
	if cfg.MenuAnchorIndex == 0 {
		cfg.MenuAnchorIndex = d.MenuAnchorIndex
	}
	return cfg
}

// Save writes the config to disk atomically (write to temp, then rename).
func (c *ConfigService) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
