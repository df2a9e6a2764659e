package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/spf13/cobra"
)

var flagHotkey string

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run as a daemon: grab the selection on a global hotkey",
	Long: `listen registers a global hotkey and stays resident with a system-tray
item. Each hotkey press (or "Grab Selection Now" in the tray menu) acquires
the current selection and writes it to stdout, one record per press.

The daemon hides its Dock icon; quit it from the tray menu.`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVar(&flagHotkey, "hotkey", "", `hotkey combo, e.g. "ctrl+shift+c" (default from config)`)
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg := NewConfigService().Load()
	combo := cfg.Hotkey
	if flagHotkey != "" {
		combo = flagHotkey
	}

	svc := buildSelectionService(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Acquisitions are serialized: the clipboard transaction is a
	// single-writer protocol, so a second hotkey press waits for the first
	// grab to finish rather than racing its snapshot/restore.
	var grabMu sync.Mutex
	grab := func() {
		grabMu.Lock()
		defer grabMu.Unlock()
		text, ok := svc.Acquire(ctx)
		if !ok {
			log.Printf("listen: no selection found")
			return
		}
		fmt.Println(text)
	}

	hotkeys := NewHotkeyService()
	if err := hotkeys.Start(ctx, combo, grab); err != nil {
		if errors.Is(err, ErrHotkeyConflict) {
			log.Printf("listen: %s is already registered by another app — tray menu only", FormatHotkey(combo))
		} else {
			return err
		}
	}
	defer hotkeys.Stop()

	log.Printf("listen: ready — press %s to grab the current selection", FormatHotkey(combo))
	RunSystray(FormatHotkey(combo), grab, cancel)
	return nil
}
