package page

import (
	"sync"

	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

// Binding attaches one set of handlers to the page and returns the function
// that detaches them again.
type Binding func() (teardown func(), err error)

// Lifecycle owns one-time page initialization. A second Init without a
// Teardown is rejected so partial page replacement can never double-bind
// handlers.
type Lifecycle struct {
	mu        sync.Mutex
	active    bool
	teardowns []func()
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// Init runs every binding once. On any binding failure the already attached
// bindings are torn down and the lifecycle stays inactive.
func (l *Lifecycle) Init(bindings ...Binding) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		return pkgerrors.New(pkgerrors.CodeInternal, "page already initialized")
	}

	var attached []func()
	for _, bind := range bindings {
		if bind == nil {
			continue
		}
		teardown, err := bind()
		if err != nil {
			for i := len(attached) - 1; i >= 0; i-- {
				attached[i]()
			}
			return err
		}
		if teardown != nil {
			attached = append(attached, teardown)
		}
	}

	l.teardowns = attached
	l.active = true
	return nil
}

// Teardown detaches every binding in reverse order. It is safe to call on an
// inactive lifecycle.
func (l *Lifecycle) Teardown() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.teardowns) - 1; i >= 0; i-- {
		l.teardowns[i]()
	}
	l.teardowns = nil
	l.active = false
}

// Active reports whether the page is currently initialized.
func (l *Lifecycle) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
