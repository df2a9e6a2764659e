package main

// copyActionIdentifier is the stable identifier macOS attaches to the
// standard Edit ▸ Copy menu item (the selector name of its action).
const copyActionIdentifier = "copy:"

// defaultMenuAnchor is the conventional index of the Edit menu in a standard
// menu bar (Apple, Application, File, Edit, …).
const defaultMenuAnchor = 3

// copyTitles lists the title of the standard Copy menu item across the
// locales macOS ships with. Used when an application doesn't expose the
// stable identifier; a title match alone is too weak, so callers also
// require the ⌘C shortcut character.
var copyTitles = map[string]bool{
	"Copy":        true, // en
	"Copier":      true, // fr
	"Kopieren":    true, // de
	"Copiar":      true, // es, pt
	"Copia":       true, // it
	"Kopiëren":    true, // nl
	"Kopiera":     true, // sv
	"Kopier":      true, // da, no
	"Kopioi":      true, // fi
	"Kopiuj":      true, // pl
	"Копировать":  true, // ru
	"コピー":         true, // ja
	"拷贝":          true, // zh-Hans
	"拷貝":          true, // zh-Hant
	"복사":          true, // ko
	"Kopyala":     true, // tr
	"Másolás":     true, // hu
	"Kopírovat":   true, // cs
	"Αντιγραφή":   true, // el
	"העתק":        true, // he
	"نسخ":         true, // ar
	"คัดลอก":      true, // th
	"Sao chép":    true, // vi
	"Salin":       true, // id, ms
	"Copiază":     true, // ro
	"Копіювати":   true, // uk
	"Kopēt":       true, // lv
	"Kopijuoti":   true, // lt
}

// isCopyCandidate reports whether node looks like the Copy command: either
// its stable identifier is the canonical copy selector, or its shortcut is
// ⌘C and its title matches a known localization of "Copy".
func isCopyCandidate(node AXNode) bool {
	if node.Identifier() == copyActionIdentifier {
		return true
	}
	return node.CmdChar() == "C" && copyTitles[node.Title()]
}

// probeOrder returns the order in which the n top-level menus should be
// probed, expanding alternately outward from anchor (anchor, anchor-1,
// anchor+1, anchor-2, …) clipped to bounds. Returns nil when the bar is too
// short to bias, in which case the caller falls back to an exhaustive scan.
func probeOrder(n, anchor int) []int {
	if anchor < 0 || n <= anchor {
		return nil
	}
	order := []int{anchor}
	for d := 1; ; d++ {
		lo, hi := anchor-d, anchor+d
		if lo < 0 && hi >= n {
			return order
		}
		if lo >= 0 {
			order = append(order, lo)
		}
		if hi < n {
			order = append(order, hi)
		}
	}
}

// findCopyItem depth-first searches the subtree rooted at node for a Copy
// Candidate and returns the first match.
func findCopyItem(node AXNode) (AXNode, bool) {
	if isCopyCandidate(node) {
		return node, true
	}
	for _, child := range node.Children() {
		if item, ok := findCopyItem(child); ok {
			return item, true
		}
	}
	return nil, false
}

// findCopyCommand locates the Copy command inside an application's menu bar.
// Top-level menus are probed outward from anchor first — Edit-like menus
// cluster near the middle-left of a standard menu bar, so this finds the
// common case without walking the whole tree. If the biased probe misses,
// the entire tree is searched exhaustively.
//
// Enabled-state is deliberately not checked here; it can change between
// search and use, so the caller re-checks at the point of use.
func findCopyCommand(menuBar AXNode, anchor int) (AXNode, bool) {
	if menuBar == nil {
		return nil, false
	}
	top := menuBar.Children()
	for _, i := range probeOrder(len(top), anchor) {
		if item, ok := findCopyItem(top[i]); ok {
			return item, true
		}
	}
	return findCopyItem(menuBar)
}
