package book

// Snapshot is the page state every leaf reads during one frame.
type Snapshot struct {
	Target  int  // page requested by navigation
	Settled int  // page currently displayed
	Leaves  int  // L, the number of leaves
	Overlay bool // secondary content visible
}

// BookClosed reports whether the whole stack lies on one side.
func (s Snapshot) BookClosed() bool {
	return s.Settled == 0 || s.Settled == s.Leaves
}

// Opened reports whether leaf number has been turned over.
func (s Snapshot) Opened(number int) bool {
	return s.Settled > number
}

// Stepping reports whether the displayed page still trails the target.
func (s Snapshot) Stepping() bool {
	return s.Settled != s.Target
}

// ClampPage limits page to the valid range [0, leaves].
func ClampPage(page, leaves int) int {
	if page < 0 {
		return 0
	}
	if page > leaves {
		return leaves
	}
	return page
}
