package main

import (
	"sync"

	"github.com/atotto/clipboard"
)

// textClipboardType is the type label given to text captured through the
// portable backend, mirroring the UTI the darwin binding reports.
const textClipboardType = "public.utf8-plain-text"

// portablePasteboard is a text-only pasteboard built on
// github.com/atotto/clipboard. The platform change counter has no portable
// equivalent, so it is emulated: each ChangeCount call re-reads the
// clipboard and bumps an internal counter when the text differs from the
// previous observation. Good enough for change detection, which is the only
// thing the counter is used for.
type portablePasteboard struct {
	mu       sync.Mutex
	count    int
	lastText string
	primed   bool
}

func newPortablePasteboard() *portablePasteboard {
	return &portablePasteboard{}
}

// clipboardAvailable reports whether a clipboard mechanism exists at all on
// this system (e.g. xclip/xsel on Linux).
func clipboardAvailable() bool {
	return !clipboard.Unsupported
}

func (p *portablePasteboard) ChangeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	text, err := clipboard.ReadAll()
	if err != nil {
		return p.count
	}
	if !p.primed {
		p.primed = true
		p.lastText = text
		return p.count
	}
	if text != p.lastText {
		p.lastText = text
		p.count++
	}
	return p.count
}

func (p *portablePasteboard) ReadText() (string, bool) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", false
	}
	return text, true
}

func (p *portablePasteboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func (p *portablePasteboard) Snapshot() ([]ClipboardItem, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return []ClipboardItem{{Type: textClipboardType, Data: []byte(text)}}, nil
}

func (p *portablePasteboard) Restore(items []ClipboardItem) error {
	for _, item := range items {
		if item.Type == textClipboardType {
			return clipboard.WriteAll(string(item.Data))
		}
	}
	// Empty snapshot, or nothing textual survived the round trip.
	return clipboard.WriteAll("")
}
