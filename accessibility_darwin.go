//go:build darwin

package main

/*
#cgo darwin CFLAGS: -x objective-c
#cgo darwin LDFLAGS: -framework ApplicationServices -framework AppKit -framework Foundation
#include <stdlib.h>
#include <string.h>
#import <AppKit/AppKit.h>
#import <ApplicationServices/ApplicationServices.h>

static bool ax_trusted(bool prompt) {
	NSDictionary *opts = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt : @(prompt)};
	return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)opts);
}

// Selected text of the focused UI element, malloc'd UTF-8, or NULL with
// *errcode set to the AXError.
static char *ax_focused_selected_text(int *errcode) {
	AXUIElementRef systemWide = AXUIElementCreateSystemWide();
	CFTypeRef focused = NULL;
	AXError err = AXUIElementCopyAttributeValue(systemWide, kAXFocusedUIElementAttribute, &focused);
	CFRelease(systemWide);
	if (err != kAXErrorSuccess || focused == NULL) {
		*errcode = (int)err;
		return NULL;
	}
	CFTypeRef value = NULL;
	err = AXUIElementCopyAttributeValue((AXUIElementRef)focused, kAXSelectedTextAttribute, &value);
	CFRelease(focused);
	if (err != kAXErrorSuccess || value == NULL || CFGetTypeID(value) != CFStringGetTypeID()) {
		if (value) CFRelease(value);
		*errcode = (err == kAXErrorSuccess) ? (int)kAXErrorNoValue : (int)err;
		return NULL;
	}
	const char *utf8 = [(__bridge NSString *)value UTF8String];
	char *out = strdup(utf8 ? utf8 : "");
	CFRelease(value);
	*errcode = 0;
	return out;
}

// Menu bar of the frontmost application, retained (+1) for the caller.
static AXUIElementRef ax_frontmost_menubar(void) {
	NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
	if (app == nil) {
		return NULL;
	}
	AXUIElementRef axApp = AXUIElementCreateApplication(app.processIdentifier);
	CFTypeRef bar = NULL;
	AXError err = AXUIElementCopyAttributeValue(axApp, kAXMenuBarAttribute, &bar);
	CFRelease(axApp);
	if (err != kAXErrorSuccess || bar == NULL) {
		return NULL;
	}
	return (AXUIElementRef)bar;
}

static char *ax_string_attr(AXUIElementRef el, CFStringRef attr) {
	CFTypeRef value = NULL;
	if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || value == NULL) {
		return NULL;
	}
	char *out = NULL;
	if (CFGetTypeID(value) == CFStringGetTypeID()) {
		const char *utf8 = [(__bridge NSString *)value UTF8String];
		out = strdup(utf8 ? utf8 : "");
	}
	CFRelease(value);
	return out;
}

static char *ax_role(AXUIElementRef el)       { return ax_string_attr(el, kAXRoleAttribute); }
static char *ax_title(AXUIElementRef el)      { return ax_string_attr(el, kAXTitleAttribute); }
static char *ax_identifier(AXUIElementRef el) { return ax_string_attr(el, kAXIdentifierAttribute); }
static char *ax_cmd_char(AXUIElementRef el)   { return ax_string_attr(el, kAXMenuItemCmdCharAttribute); }

static bool ax_enabled(AXUIElementRef el) {
	CFTypeRef value = NULL;
	if (AXUIElementCopyAttributeValue(el, kAXEnabledAttribute, &value) != kAXErrorSuccess || value == NULL) {
		return true; // attribute missing — treat as enabled
	}
	bool enabled = (CFGetTypeID(value) == CFBooleanGetTypeID()) && CFBooleanGetValue((CFBooleanRef)value);
	CFRelease(value);
	return enabled;
}

// Children of el as a retained CFArray of AXUIElementRef, or NULL.
static CFArrayRef ax_children(AXUIElementRef el) {
	CFTypeRef value = NULL;
	if (AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &value) != kAXErrorSuccess || value == NULL) {
		return NULL;
	}
	if (CFGetTypeID(value) != CFArrayGetTypeID()) {
		CFRelease(value);
		return NULL;
	}
	return (CFArrayRef)value;
}

static long ax_array_count(CFArrayRef arr) { return (long)CFArrayGetCount(arr); }

// Element i of arr, retained (+1) for the caller.
static AXUIElementRef ax_array_at(CFArrayRef arr, long i) {
	AXUIElementRef el = (AXUIElementRef)CFArrayGetValueAtIndex(arr, i);
	CFRetain(el);
	return el;
}

static void ax_release(AXUIElementRef el) {
	if (el) CFRelease(el);
}

static void ax_release_array(CFArrayRef arr) {
	if (arr) CFRelease(arr);
}

static int ax_press(AXUIElementRef el) {
	return (int)AXUIElementPerformAction(el, kAXPressAction);
}

// Posts ⌘C to the HID event stream. 8 is kVK_ANSI_C.
static void ax_send_copy_keystroke(void) {
	CGEventSourceRef src = CGEventSourceCreate(kCGEventSourceStateHIDSystemState);
	CGEventRef down = CGEventCreateKeyboardEvent(src, (CGKeyCode)8, true);
	CGEventRef up = CGEventCreateKeyboardEvent(src, (CGKeyCode)8, false);
	CGEventSetFlags(down, kCGEventFlagMaskCommand);
	CGEventSetFlags(up, kCGEventFlagMaskCommand);
	CGEventPost(kCGHIDEventTap, down);
	CGEventPost(kCGHIDEventTap, up);
	CFRelease(down);
	CFRelease(up);
	if (src) CFRelease(src);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

// darwinNode wraps a retained AXUIElementRef. Attribute reads go straight to
// the accessibility API each time — nothing is cached, since the tree can
// change under us. The underlying ref is released when the node is
// garbage-collected.
type darwinNode struct {
	ref C.AXUIElementRef
}

func newDarwinNode(ref C.AXUIElementRef) *darwinNode {
	n := &darwinNode{ref: ref}
	runtime.SetFinalizer(n, func(n *darwinNode) { C.ax_release(n.ref) })
	return n
}

// goStringFree converts a malloc'd C string to a Go string, freeing it.
// nil maps to "".
func goStringFree(cs *C.char) string {
	if cs == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs)
}

func (n *darwinNode) Role() string       { return goStringFree(C.ax_role(n.ref)) }
func (n *darwinNode) Title() string      { return goStringFree(C.ax_title(n.ref)) }
func (n *darwinNode) Identifier() string { return goStringFree(C.ax_identifier(n.ref)) }
func (n *darwinNode) CmdChar() string    { return goStringFree(C.ax_cmd_char(n.ref)) }
func (n *darwinNode) Enabled() bool      { return bool(C.ax_enabled(n.ref)) }

func (n *darwinNode) Children() []AXNode {
	arr := C.ax_children(n.ref)
	if arr == nil {
		return nil
	}
	defer C.ax_release_array(arr)
	count := int(C.ax_array_count(arr))
	children := make([]AXNode, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, newDarwinNode(C.ax_array_at(arr, C.long(i))))
	}
	return children
}

// darwinAXBackend implements axBackend over the macOS Accessibility API.
type darwinAXBackend struct{}

// newPlatformAXBackend returns the real macOS accessibility binding.
func newPlatformAXBackend() axBackend {
	return &darwinAXBackend{}
}

func (d *darwinAXBackend) Trusted(prompt bool) bool {
	return bool(C.ax_trusted(C.bool(prompt)))
}

func (d *darwinAXBackend) FocusedSelectionText() (string, error) {
	var code C.int
	cs := C.ax_focused_selected_text(&code)
	if cs == nil {
		return "", fmt.Errorf("accessibility: selected-text read failed (AXError %d)", int(code))
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs), nil
}

func (d *darwinAXBackend) FrontmostMenuBar() (AXNode, bool) {
	ref := C.ax_frontmost_menubar()
	if ref == nil {
		return nil, false
	}
	return newDarwinNode(ref), true
}

func (d *darwinAXBackend) PressMenuItem(item AXNode) error {
	node, ok := item.(*darwinNode)
	if !ok {
		return fmt.Errorf("accessibility: cannot press non-platform node %T", item)
	}
	if code := int(C.ax_press(node.ref)); code != 0 {
		return fmt.Errorf("accessibility: press failed (AXError %d)", code)
	}
	return nil
}

func (d *darwinAXBackend) SendCopyShortcut() error {
	C.ax_send_copy_keystroke()
	return nil
}
