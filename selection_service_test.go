package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ── fake accessibility backend ────────────────────────────

type fakeAXBackend struct {
	trusted       bool
	selectionText string
	selectionErr  error
	menuBar       AXNode
	menuBarCalls  int
	pressed       int
	pressErr      error
	pressHook     func()
	shortcutSent  int
	shortcutHook  func()
}

func (f *fakeAXBackend) Trusted(prompt bool) bool { return f.trusted }

func (f *fakeAXBackend) FocusedSelectionText() (string, error) {
	return f.selectionText, f.selectionErr
}

func (f *fakeAXBackend) FrontmostMenuBar() (AXNode, bool) {
	f.menuBarCalls++
	if f.menuBar == nil {
		return nil, false
	}
	return f.menuBar, true
}

func (f *fakeAXBackend) PressMenuItem(item AXNode) error {
	f.pressed++
	if f.pressErr != nil {
		return f.pressErr
	}
	if f.pressHook != nil {
		f.pressHook()
	}
	return nil
}

func (f *fakeAXBackend) SendCopyShortcut() error {
	f.shortcutSent++
	if f.shortcutHook != nil {
		f.shortcutHook()
	}
	return nil
}

// barWithCopyAt builds a menu bar of n top-level menus with an enabled Copy
// Candidate (canonical identifier) inside the menu at index idx.
func barWithCopyAt(n, idx int) AXNode {
	menus := make([]AXNode, 0, n)
	for i := 0; i < n; i++ {
		items := []AXNode{&fakeNode{role: roleMenuItem, title: "Other"}}
		if i == idx {
			items = append(items, &fakeNode{role: roleMenuItem, title: "Copy", identifier: "copy:", cmdChar: "C"})
		}
		menus = append(menus, &fakeNode{
			role:     roleMenuBarItem,
			children: []AXNode{&fakeNode{role: roleMenu, children: items}},
		})
	}
	return &fakeNode{role: roleMenuBar, children: menus}
}

func newTestService(backend *fakeAXBackend, pb *fakePasteboard, opts SelectionOptions) *SelectionService {
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Millisecond
	}
	if opts.PollTimeout == 0 {
		opts.PollTimeout = 100 * time.Millisecond
	}
	return newSelectionServiceWithBackend(backend, newClipboardServiceWithBackend(pb), opts)
}

// ── tests ─────────────────────────────────────────────────

func TestAcquireDirectReadShortCircuits(t *testing.T) {
	backend := &fakeAXBackend{trusted: true, selectionText: "hello"}
	pb := newFakePasteboard("OLD")
	svc := newTestService(backend, pb, SelectionOptions{})

	text, ok := svc.Acquire(context.Background())
	if !ok || text != "hello" {
		t.Fatalf("Acquire() = (%q, %v); want (%q, true)", text, ok, "hello")
	}
	if backend.menuBarCalls != 0 || backend.pressed != 0 || backend.shortcutSent != 0 {
		t.Error("direct read succeeded but menu/shortcut strategies were still touched")
	}
	if pb.restores != 0 || pb.text() != "OLD" {
		t.Error("direct read must not touch the clipboard")
	}
}

func TestAcquirePermissionDeniedSkipsCopyStrategies(t *testing.T) {
	backend := &fakeAXBackend{
		trusted:      false,
		selectionErr: errors.New("attribute unsupported"),
		menuBar:      barWithCopyAt(5, 2),
	}
	pb := newFakePasteboard("OLD")
	svc := newTestService(backend, pb, SelectionOptions{ShortcutFallback: true})

	text, ok := svc.Acquire(context.Background())
	if ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want no result without permission", text, ok)
	}
	if backend.menuBarCalls != 0 || backend.pressed != 0 || backend.shortcutSent != 0 {
		t.Error("copy strategies were attempted without accessibility permission")
	}
	if pb.text() != "OLD" {
		t.Errorf("clipboard = %q; want untouched %q", pb.text(), "OLD")
	}
}

func TestAcquireMenuCopyEndToEnd(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{
		trusted:      true,
		selectionErr: errors.New("no selection attribute"),
		menuBar:      barWithCopyAt(5, 2),
	}
	backend.pressHook = func() { pb.WriteText("NEW") } //nolint:errcheck
	svc := newTestService(backend, pb, SelectionOptions{})

	text, ok := svc.Acquire(context.Background())
	if !ok || text != "NEW" {
		t.Fatalf("Acquire() = (%q, %v); want (%q, true)", text, ok, "NEW")
	}
	if backend.pressed != 1 {
		t.Errorf("pressed = %d; want exactly one menu press", backend.pressed)
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard after acquisition = %q; want %q restored", got, "OLD")
	}
}

func TestAcquireMenuCopyAsynchronousResult(t *testing.T) {
	// The target application services the copy on its own schedule — the
	// clipboard changes 20ms after the press, within the poll window.
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true, menuBar: barWithCopyAt(5, 2)}
	backend.pressHook = func() {
		go func() {
			time.Sleep(20 * time.Millisecond)
			pb.WriteText("LATE") //nolint:errcheck
		}()
	}
	svc := newTestService(backend, pb, SelectionOptions{PollTimeout: 200 * time.Millisecond})

	text, ok := svc.Acquire(context.Background())
	if !ok || text != "LATE" {
		t.Fatalf("Acquire() = (%q, %v); want (%q, true)", text, ok, "LATE")
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard after acquisition = %q; want %q restored", got, "OLD")
	}
}

func TestAcquireNoCopyCommandFound(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{
		trusted: true,
		menuBar: &fakeNode{role: roleMenuBar, children: []AXNode{
			&fakeNode{role: roleMenuBarItem, children: []AXNode{
				&fakeNode{role: roleMenu, children: []AXNode{
					&fakeNode{role: roleMenuItem, title: "Save", cmdChar: "S"},
				}},
			}},
		}},
	}
	svc := newTestService(backend, pb, SelectionOptions{})

	text, ok := svc.Acquire(context.Background())
	if ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want no result", text, ok)
	}
	if backend.pressed != 0 {
		t.Error("a press was issued although no copy command exists")
	}
	if pb.restores != 0 || pb.text() != "OLD" {
		t.Error("clipboard was touched although no copy action ran")
	}
}

func TestAcquireDisabledCopyCommand(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{
		trusted: true,
		menuBar: &fakeNode{role: roleMenuBar, children: []AXNode{
			&fakeNode{role: roleMenuBarItem, children: []AXNode{
				&fakeNode{role: roleMenu, children: []AXNode{
					&fakeNode{role: roleMenuItem, title: "Copy", identifier: "copy:", disabled: true},
				}},
			}},
		}},
	}
	svc := newTestService(backend, pb, SelectionOptions{})

	if text, ok := svc.Acquire(context.Background()); ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want no result for a disabled copy command", text, ok)
	}
	if backend.pressed != 0 {
		t.Error("a disabled copy command was pressed")
	}
}

func TestAcquireMenuCopyTimeoutRestores(t *testing.T) {
	// Press succeeds but the clipboard never changes: the poller times out
	// and the transaction still restores.
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true, menuBar: barWithCopyAt(5, 2)}
	svc := newTestService(backend, pb, SelectionOptions{PollTimeout: 30 * time.Millisecond})

	text, ok := svc.Acquire(context.Background())
	if ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want no result on timeout", text, ok)
	}
	if pb.restores != 1 {
		t.Errorf("restores = %d; want 1 even after a timeout", pb.restores)
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard = %q; want %q restored", got, "OLD")
	}
}

func TestAcquirePressFailureIsNoSignal(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{
		trusted:  true,
		menuBar:  barWithCopyAt(5, 2),
		pressErr: errors.New("AXError -25205"),
	}
	svc := newTestService(backend, pb, SelectionOptions{})

	if text, ok := svc.Acquire(context.Background()); ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want binding error converted to no result", text, ok)
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard = %q; want %q restored after failed press", got, "OLD")
	}
}

func TestAcquireShortcutNotChainedByDefault(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true}
	backend.shortcutHook = func() { pb.WriteText("VIA-SHORTCUT") } //nolint:errcheck
	svc := newTestService(backend, pb, SelectionOptions{})

	if _, ok := svc.Acquire(context.Background()); ok {
		t.Fatal("Acquire() succeeded; expected no result without shortcut fallback")
	}
	if backend.shortcutSent != 0 {
		t.Error("synthetic shortcut was sent although the fallback is off by default")
	}
}

func TestAcquireShortcutFallback(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true}
	backend.shortcutHook = func() { pb.WriteText("VIA-SHORTCUT") } //nolint:errcheck
	svc := newTestService(backend, pb, SelectionOptions{ShortcutFallback: true})

	text, ok := svc.Acquire(context.Background())
	if !ok || text != "VIA-SHORTCUT" {
		t.Fatalf("Acquire() = (%q, %v); want (%q, true)", text, ok, "VIA-SHORTCUT")
	}
	if backend.shortcutSent != 1 {
		t.Errorf("shortcutSent = %d; want 1", backend.shortcutSent)
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard = %q; want %q restored", got, "OLD")
	}
}

func TestAcquireViaShortcutRequiresPermission(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: false}
	svc := newTestService(backend, pb, SelectionOptions{})

	if _, ok := svc.AcquireViaShortcut(context.Background()); ok {
		t.Fatal("AcquireViaShortcut() succeeded without permission")
	}
	if backend.shortcutSent != 0 {
		t.Error("synthetic shortcut was sent without permission")
	}
}

func TestAcquireEmptyCopyResultIsNoSignal(t *testing.T) {
	// The copy lands but carries empty text (e.g. the app copied nothing).
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true, menuBar: barWithCopyAt(5, 2)}
	backend.pressHook = func() { pb.WriteText("") } //nolint:errcheck
	svc := newTestService(backend, pb, SelectionOptions{})

	if text, ok := svc.Acquire(context.Background()); ok || text != "" {
		t.Fatalf("Acquire() = (%q, %v); want empty copy treated as no signal", text, ok)
	}
	if got := pb.text(); got != "OLD" {
		t.Errorf("clipboard = %q; want %q restored", got, "OLD")
	}
}

func TestAcquireCancellation(t *testing.T) {
	pb := newFakePasteboard("OLD")
	backend := &fakeAXBackend{trusted: true, menuBar: barWithCopyAt(5, 2)}
	svc := newTestService(backend, pb, SelectionOptions{PollTimeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, ok := svc.Acquire(ctx)
	if ok {
		t.Fatal("Acquire() succeeded after cancellation")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation observed after %v; want prompt exit", elapsed)
	}
	// Restoration is not cancellable — it ran to completion.
	if pb.restores != 1 || pb.text() != "OLD" {
		t.Error("clipboard was not restored after cancellation")
	}
}
