//go:build !darwin

package main

// unsupportedAXBackend stands in on platforms without an accessibility
// binding. Every strategy degrades to no-signal, so acquisition reports
// "no selection found" instead of crashing.
type unsupportedAXBackend struct{}

// newPlatformAXBackend returns a stub binding on non-darwin platforms.
func newPlatformAXBackend() axBackend {
	return &unsupportedAXBackend{}
}

func (u *unsupportedAXBackend) Trusted(prompt bool) bool { return false }

func (u *unsupportedAXBackend) FocusedSelectionText() (string, error) {
	return "", ErrAXUnavailable
}

func (u *unsupportedAXBackend) FrontmostMenuBar() (AXNode, bool) { return nil, false }

func (u *unsupportedAXBackend) PressMenuItem(item AXNode) error { return ErrAXUnavailable }

func (u *unsupportedAXBackend) SendCopyShortcut() error { return ErrAXUnavailable }
