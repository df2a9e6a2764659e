//go:build darwin

package main

/*
#cgo darwin CFLAGS: -x objective-c
#cgo darwin LDFLAGS: -framework AppKit -framework Foundation
#include <stdlib.h>
#include <string.h>
#import <AppKit/AppKit.h>

static long pb_change_count(void) {
	return (long)[[NSPasteboard generalPasteboard] changeCount];
}

static char *pb_read_text(void) {
	NSString *s = [[NSPasteboard generalPasteboard] stringForType:NSPasteboardTypeString];
	if (s == nil) {
		return NULL;
	}
	const char *utf8 = [s UTF8String];
	return strdup(utf8 ? utf8 : "");
}

static bool pb_write_text(const char *text) {
	NSPasteboard *pb = [NSPasteboard generalPasteboard];
	[pb clearContents];
	return [pb setString:[NSString stringWithUTF8String:text] forType:NSPasteboardTypeString];
}

// Full snapshot of the general pasteboard: every item/type pair in order,
// flattened into parallel arrays. Freed with pb_snapshot_free.
typedef struct {
	char **types;
	void **datas;
	long *lens;
	long count;
} pb_snapshot;

static pb_snapshot *pb_snapshot_copy(void) {
	NSPasteboard *pb = [NSPasteboard generalPasteboard];
	NSMutableArray<NSString *> *types = [NSMutableArray array];
	NSMutableArray<NSData *> *datas = [NSMutableArray array];
	for (NSPasteboardItem *item in [pb pasteboardItems]) {
		for (NSString *type in item.types) {
			NSData *d = [item dataForType:type];
			if (d == nil) {
				continue;
			}
			[types addObject:type];
			[datas addObject:d];
		}
	}
	pb_snapshot *snap = calloc(1, sizeof(pb_snapshot));
	snap->count = (long)types.count;
	if (snap->count == 0) {
		return snap;
	}
	snap->types = calloc(snap->count, sizeof(char *));
	snap->datas = calloc(snap->count, sizeof(void *));
	snap->lens = calloc(snap->count, sizeof(long));
	for (long i = 0; i < snap->count; i++) {
		snap->types[i] = strdup([types[i] UTF8String]);
		NSData *d = datas[i];
		snap->lens[i] = (long)d.length;
		snap->datas[i] = malloc(d.length > 0 ? d.length : 1);
		memcpy(snap->datas[i], d.bytes, d.length);
	}
	return snap;
}

static void pb_snapshot_free(pb_snapshot *snap) {
	if (snap == NULL) {
		return;
	}
	for (long i = 0; i < snap->count; i++) {
		free(snap->types[i]);
		free(snap->datas[i]);
	}
	free(snap->types);
	free(snap->datas);
	free(snap->lens);
	free(snap);
}

static char *pb_snapshot_type(pb_snapshot *snap, long i) { return snap->types[i]; }
static void *pb_snapshot_data(pb_snapshot *snap, long i) { return snap->datas[i]; }
static long pb_snapshot_len(pb_snapshot *snap, long i)   { return snap->lens[i]; }
static long pb_snapshot_count(pb_snapshot *snap)         { return snap->count; }

static void pb_clear(void) {
	[[NSPasteboard generalPasteboard] clearContents];
}

static bool pb_set_data(const char *type, const void *data, long len) {
	NSPasteboard *pb = [NSPasteboard generalPasteboard];
	NSString *t = [NSString stringWithUTF8String:type];
	NSData *d = [NSData dataWithBytes:data length:(NSUInteger)len];
	return [pb setData:d forType:t];
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// darwinPasteboard implements pasteboard over NSPasteboard's general
// pasteboard. The change counter is the platform's own changeCount.
type darwinPasteboard struct{}

// newPlatformPasteboard returns the real macOS pasteboard binding.
func newPlatformPasteboard() pasteboard {
	return &darwinPasteboard{}
}

func (p *darwinPasteboard) ChangeCount() int {
	return int(C.pb_change_count())
}

func (p *darwinPasteboard) ReadText() (string, bool) {
	cs := C.pb_read_text()
	if cs == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs), true
}

func (p *darwinPasteboard) WriteText(text string) error {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	if !bool(C.pb_write_text(cs)) {
		return fmt.Errorf("pasteboard: write rejected")
	}
	return nil
}

func (p *darwinPasteboard) Snapshot() ([]ClipboardItem, error) {
	snap := C.pb_snapshot_copy()
	if snap == nil {
		return nil, fmt.Errorf("pasteboard: snapshot allocation failed")
	}
	defer C.pb_snapshot_free(snap)
	count := int(C.pb_snapshot_count(snap))
	items := make([]ClipboardItem, 0, count)
	for i := 0; i < count; i++ {
		ci := C.long(i)
		items = append(items, ClipboardItem{
			Type: C.GoString(C.pb_snapshot_type(snap, ci)),
			Data: C.GoBytes(C.pb_snapshot_data(snap, ci), C.int(C.pb_snapshot_len(snap, ci))),
		})
	}
	return items, nil
}

// Restore replays a snapshot verbatim. An empty snapshot clears the
// pasteboard. Item boundaries are not preserved — all representations land
// on a single pasteboard item, which is how text-bearing clipboards look in
// practice.
func (p *darwinPasteboard) Restore(items []ClipboardItem) error {
	C.pb_clear()
	for _, item := range items {
		ctype := C.CString(item.Type)
		var data unsafe.Pointer
		if len(item.Data) > 0 {
			data = unsafe.Pointer(&item.Data[0])
		}
		ok := bool(C.pb_set_data(ctype, data, C.long(len(item.Data))))
		C.free(unsafe.Pointer(ctype))
		if !ok {
			return fmt.Errorf("pasteboard: restore rejected type %q", item.Type)
		}
	}
	return nil
}
