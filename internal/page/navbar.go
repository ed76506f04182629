package page

// scrolledThreshold is the scroll offset past which a transparent navbar
// switches to its solid style.
const scrolledThreshold = 50

const scrolledClass = "scrolled"

// ClassList is the class attribute of the navbar element.
type ClassList interface {
	Toggle(class string, on bool)
}

// Navbar toggles the scrolled style of a transparent navigation bar. Opaque
// navbars ignore scrolling entirely.
type Navbar struct {
	transparent bool
	classes     ClassList
}

func NewNavbar(transparent bool, classes ClassList) *Navbar {
	return &Navbar{transparent: transparent, classes: classes}
}

// HandleScroll applies the style for the given vertical offset. It also runs
// once at bind time so the initial offset is reflected.
func (n *Navbar) HandleScroll(offset int) {
	if n == nil || !n.transparent || n.classes == nil {
		return
	}
	n.classes.Toggle(scrolledClass, offset > scrolledThreshold)
}
