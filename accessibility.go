package main

import "errors"

// ErrAXUnavailable is returned when no accessibility binding exists for the
// current platform.
var ErrAXUnavailable = errors.New("accessibility: not available on this platform")

// Accessibility roles relevant to menu traversal.
const (
	roleMenuBar     = "AXMenuBar"
	roleMenuBarItem = "AXMenuBarItem"
	roleMenu        = "AXMenu"
	roleMenuItem    = "AXMenuItem"
)

// AXNode is a read-only view of one element in an application's accessibility
// tree. Nodes are only valid for the duration of the query that produced them
// and are never mutated here, only traversed.
type AXNode interface {
	// Role returns the element's accessibility role, e.g. "AXMenuBar",
	// "AXMenu", "AXMenuItem". Empty if the attribute is missing.
	Role() string
	// Title returns the element's visible title, if any.
	Title() string
	// Identifier returns the element's stable identifier token. For standard
	// menu items this is the action selector name (e.g. "copy:").
	Identifier() string
	// CmdChar returns the keyboard-shortcut character attached to a menu
	// item ("C" for ⌘C), or empty.
	CmdChar() string
	// Enabled reports whether the element can currently be actioned.
	Enabled() bool
	// Children returns the element's child nodes in order, nil if none.
	Children() []AXNode
}

// axBackend abstracts the platform accessibility binding so the strategy
// chain can be exercised in tests with a fake.
type axBackend interface {
	// Trusted reports whether the process holds accessibility permission.
	// With prompt set, the OS may show its grant dialog.
	Trusted(prompt bool) bool
	// FocusedSelectionText reads the focused element's selected-text
	// attribute. An empty string with a nil error means the attribute exists
	// but nothing is selected (or the selection is empty — the platform does
	// not distinguish the two).
	FocusedSelectionText() (string, error)
	// FrontmostMenuBar returns the menu-bar root of the frontmost
	// application, or false when no application or menu bar is available.
	FrontmostMenuBar() (AXNode, bool)
	// PressMenuItem invokes the menu item's press action.
	PressMenuItem(item AXNode) error
	// SendCopyShortcut posts the platform's copy keystroke (⌘C) as a global
	// input event.
	SendCopyShortcut() error
}
