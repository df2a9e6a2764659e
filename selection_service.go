package main

import (
	"context"
	"log"
	"time"
)

// SelectionOptions tunes the acquisition strategy chain. Zero values fall
// back to defaults.
type SelectionOptions struct {
	MenuAnchor       int           // top-level menu index probed first (default 3, the Edit slot)
	PollInterval     time.Duration // clipboard change-poll interval (default 5ms)
	PollTimeout      time.Duration // how long to wait for the copy to land (default 5s)
	ShortcutFallback bool          // chain the synthetic-⌘C strategy after menu copy
	PromptForTrust   bool          // let the OS show its permission dialog
}

// SelectionService acquires the text the user currently has selected in the
// frontmost application. Strategies run in order until one yields non-empty
// text: a direct accessibility read, then a menu-driven copy observed
// through a clipboard transaction, then optionally a synthetic ⌘C.
//
// "Nothing selected" is a normal outcome, reported as ("", false) rather
// than an error. A failing strategy never aborts the chain.
type SelectionService struct {
	backend axBackend
	clip    *ClipboardService
	opts    SelectionOptions
}

// NewSelectionService returns a SelectionService over the platform
// accessibility binding.
func NewSelectionService(clip *ClipboardService, opts SelectionOptions) *SelectionService {
	return newSelectionService(newPlatformAXBackend(), clip, opts)
}

// newSelectionServiceWithBackend wires in a custom binding (tests only).
func newSelectionServiceWithBackend(b axBackend, clip *ClipboardService, opts SelectionOptions) *SelectionService {
	return newSelectionService(b, clip, opts)
}

func newSelectionService(b axBackend, clip *ClipboardService, opts SelectionOptions) *SelectionService {
	if opts.MenuAnchor == 0 {
		opts.MenuAnchor = defaultMenuAnchor
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	return &SelectionService{backend: b, clip: clip, opts: opts}
}

// Acquire runs the strategy chain and returns the first non-empty selection
// text. ok is false when every strategy came up empty or accessibility
// permission is missing.
func (s *SelectionService) Acquire(ctx context.Context) (string, bool) {
	if text, ok := s.directRead(); ok {
		return text, true
	}
	if !s.backend.Trusted(s.opts.PromptForTrust) {
		log.Printf("selection: accessibility permission not granted — skipping copy strategies")
		return "", false
	}
	if text, ok := s.acquireViaMenu(ctx); ok {
		return text, true
	}
	if s.opts.ShortcutFallback {
		if text, ok := s.AcquireViaShortcut(ctx); ok {
			return text, true
		}
	}
	return "", false
}

// directRead queries the focused element's selected-text attribute. Errors
// and empty strings are both no-signal: an empty accessibility selection is
// indistinguishable from no selection at all.
func (s *SelectionService) directRead() (string, bool) {
	text, err := s.backend.FocusedSelectionText()
	if err != nil {
		log.Printf("selection: direct read failed: %v", err)
		return "", false
	}
	if text == "" {
		return "", false
	}
	log.Printf("selection: direct read yielded %d chars", len(text))
	return text, true
}

// acquireViaMenu locates the Copy command in the frontmost application's
// menu bar and invokes it inside a clipboard transaction.
func (s *SelectionService) acquireViaMenu(ctx context.Context) (string, bool) {
	menuBar, ok := s.backend.FrontmostMenuBar()
	if !ok {
		log.Printf("selection: frontmost application exposes no menu bar")
		return "", false
	}
	item, ok := findCopyCommand(menuBar, s.opts.MenuAnchor)
	if !ok {
		log.Printf("selection: no copy command found in menu tree")
		return "", false
	}
	// Enabled-state is checked here, at the point of use, not during the
	// search — it can change in between.
	if !item.Enabled() {
		log.Printf("selection: copy command present but disabled")
		return "", false
	}
	return s.copyAndObserve(ctx, func() error { return s.backend.PressMenuItem(item) })
}

// AcquireViaShortcut posts the platform copy keystroke and observes the
// clipboard for the result. An alternative entry point for applications
// whose menu trees can't be searched; not chained by default.
func (s *SelectionService) AcquireViaShortcut(ctx context.Context) (string, bool) {
	if !s.backend.Trusted(s.opts.PromptForTrust) {
		log.Printf("selection: accessibility permission not granted — shortcut strategy unavailable")
		return "", false
	}
	return s.copyAndObserve(ctx, s.backend.SendCopyShortcut)
}

// copyAndObserve runs trigger inside a clipboard transaction, waiting for
// the clipboard change counter to move before reading the new text. The
// target application services the copy on its own schedule, hence the poll.
func (s *SelectionService) copyAndObserve(ctx context.Context, trigger func() error) (string, bool) {
	return s.clip.RunProtected(func() (string, bool) {
		before := s.clip.ChangeCount()
		if err := trigger(); err != nil {
			log.Printf("selection: copy action failed: %v", err)
			return "", false
		}
		changed := pollUntil(ctx, func() bool {
			return s.clip.ChangeCount() != before
		}, s.opts.PollInterval, s.opts.PollTimeout)
		if !changed {
			log.Printf("selection: clipboard did not change after copy action")
			return "", false
		}
		text, ok := s.clip.ReadText()
		if !ok || text == "" {
			return "", false
		}
		log.Printf("selection: copy action yielded %d chars", len(text))
		return text, true
	})
}
