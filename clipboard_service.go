package main

import (
	"log"
	"time"
)

// ClipboardItem is one representation held on the clipboard: a platform type
// identifier (UTI on macOS) and its raw bytes.
type ClipboardItem struct {
	Type string
	Data []byte
}

// pasteboard abstracts the raw clipboard primitives so the transaction logic
// can be tested against a fake. ChangeCount is an opaque monotonically
// increasing value used only to detect that something happened, never for
// content comparison.
type pasteboard interface {
	Snapshot() ([]ClipboardItem, error)
	Restore(items []ClipboardItem) error
	ReadText() (string, bool)
	WriteText(text string) error
	ChangeCount() int
}

// ClipboardService guards temporary clipboard mutations with a
// snapshot/restore transaction. The clipboard is process-wide shared state;
// a copy command fired at another application overwrites it, so anything we
// trigger runs inside RunProtected and the user's clipboard comes back
// afterwards.
//
// At most one transaction may be in flight at a time — callers serialize.
type ClipboardService struct {
	backend      pasteboard
	preserve     bool
	restoreDelay time.Duration
}

// NewClipboardService returns a ClipboardService over the platform clipboard.
func NewClipboardService() *ClipboardService {
	return &ClipboardService{backend: newPlatformPasteboard(), preserve: true}
}

// newClipboardServiceWithBackend wires in a custom pasteboard (tests only).
func newClipboardServiceWithBackend(b pasteboard) *ClipboardService {
	return &ClipboardService{backend: b, preserve: true}
}

// SetPreserve controls whether RunProtected snapshots and restores the
// clipboard. With preservation off the action's clipboard side effect is
// left visible to the rest of the system.
func (s *ClipboardService) SetPreserve(v bool) { s.preserve = v }

// SetRestoreDelay sets an optional pause between the action completing and
// the clipboard being restored. Default none.
func (s *ClipboardService) SetRestoreDelay(d time.Duration) { s.restoreDelay = d }

// ReadText returns the clipboard's plain-text contents, if any.
func (s *ClipboardService) ReadText() (string, bool) { return s.backend.ReadText() }

// ChangeCount returns the clipboard's current change counter.
func (s *ClipboardService) ChangeCount() int { return s.backend.ChangeCount() }

// RunProtected captures the clipboard, runs action, and restores the capture
// on every exit path — normal return, failure inside the action, or
// cancellation of the surrounding context. The action's own result is the
// transaction's result. Snapshot and restore failures are logged, never
// surfaced; only the action's outcome reaches the caller.
//
// An empty snapshot restores to an empty clipboard: if there was nothing to
// protect, the action's leftovers are still cleared away.
func (s *ClipboardService) RunProtected(action func() (string, bool)) (string, bool) {
	if !s.preserve {
		return action()
	}
	snapshot, err := s.backend.Snapshot()
	if err != nil {
		log.Printf("clipboard: snapshot failed (%v) — running unprotected", err)
		return action()
	}
	defer func() {
		if s.restoreDelay > 0 {
			time.Sleep(s.restoreDelay)
		}
		if err := s.backend.Restore(snapshot); err != nil {
			log.Printf("clipboard: restore failed: %v", err)
		}
	}()
	return action()
}
