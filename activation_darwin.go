//go:build darwin

package main

/*
#cgo darwin CFLAGS: -x objective-c
#cgo darwin LDFLAGS: -framework AppKit
#import <AppKit/AppKit.h>

// hideFromDock sets the process activation policy to Accessory, removing the
// Dock icon and Task Switcher entry. Safe to call only after the Cocoa run
// loop is running.
void hideFromDock() {
    if ([NSApp isRunning]) {
        [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    }
}
*/
import "C"

import "log"

// HideFromDock removes the app's Dock icon at runtime so the listener is
// tray-only. No-op if called before the Cocoa run loop (e.g. in tests).
func HideFromDock() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("activation: HideFromDock skipped (no run loop): %v", r)
		}
	}()
	C.hideFromDock()
}
