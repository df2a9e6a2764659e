package main

import "github.com/getlantern/systray"

// RunSystray runs the system-tray item for listen mode. It blocks until the
// user quits — the tray must own the process main loop on macOS, so listen
// mode hands the main goroutine to it and does everything else in the
// background.
func RunSystray(hotkeyLabel string, onGrab func(), onExit func()) {
	systray.Run(
		func() { onSystrayReady(hotkeyLabel, onGrab) },
		onExit,
	)
}

func onSystrayReady(hotkeyLabel string, onGrab func()) {
	HideFromDock() // runs on the Cocoa thread — safe to call NSApp here
	systray.SetTitle("✂")
	systray.SetTooltip("selected-text — listening on " + hotkeyLabel)

	mGrab := systray.AddMenuItem("Grab Selection Now", "Acquire the current selection immediately")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit selected-text", "Stop listening and exit")

	go func() {
		for {
			select {
			case <-mGrab.ClickedCh:
				onGrab()
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}
