package app

import (
	"fmt"

	"github.com/Faultbox/folio/internal/book"
)

// hover tracks the leaf under the pointer. Only the nearest leaf is
// hovered, the way only the nearest leaf receives a click.
type hover struct {
	leaf int
}

func newHover() hover {
	return hover{leaf: -1}
}

// Move updates the hovered leaf from the intersections under the pointer.
func (h *hover) Move(b *book.Book, hits []book.Intersection) {
	next := -1
	if len(hits) > 0 {
		next = hits[0].Leaf
	}
	if next == h.leaf {
		return
	}
	if h.leaf >= 0 {
		b.SetHover(h.leaf, false)
	}
	if next >= 0 {
		b.SetHover(next, true)
	}
	h.leaf = next
}

// Clear unhovers whatever leaf is hovered, e.g. when the pointer leaves
// the window.
func (h *hover) Clear(b *book.Book) {
	h.Move(b, nil)
}

// Title is the window title for a snapshot.
func Title(names []string, s book.Snapshot) string {
	title := fmt.Sprintf("Folio - %s", book.PageName(names, s.Target))
	if s.Overlay {
		title += " (about)"
	}
	return title
}

// PageChanged reports whether the requested page moved between snapshots.
// The flip cue follows the request, not the settled page.
func PageChanged(prev, next book.Snapshot) bool {
	return prev.Target != next.Target
}
