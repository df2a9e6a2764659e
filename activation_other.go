//go:build !darwin

package main

// HideFromDock is a no-op outside macOS.
func HideFromDock() {}
