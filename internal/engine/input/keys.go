package input

import "github.com/Faultbox/folio/internal/book"

// Key is a navigation key, independent of the windowing backend.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyEscape
	KeyScreenshot
	KeyDigit0 // KeyDigit0+n is digit n
)

// Digit returns the key for digit n in [0, 9].
func Digit(n int) Key {
	return KeyDigit0 + Key(n)
}

// PageFor maps a navigation key to the page it requests while the book
// targets target. ok is false for keys that do not navigate.
func PageFor(k Key, target, leaves int) (page int, ok bool) {
	switch {
	case k == KeyLeft:
		page = target - 1
	case k == KeyRight:
		page = target + 1
	case k == KeyHome:
		page = 0
	case k == KeyEnd:
		page = leaves
	case k >= KeyDigit0 && k <= KeyDigit0+9:
		page = int(k - KeyDigit0)
	default:
		return 0, false
	}
	return book.ClampPage(page, leaves), true
}
