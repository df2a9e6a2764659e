//go:build !darwin

package main

// newPlatformPasteboard returns the portable text-only clipboard on
// non-darwin platforms.
func newPlatformPasteboard() pasteboard {
	return newPortablePasteboard()
}
