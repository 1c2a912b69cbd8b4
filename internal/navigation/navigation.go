// Package navigation tracks which of the two console views is active.
package navigation

import "sync"

// View identifies a top-level console view by its path.
type View string

const (
	Login     View = "/login"
	Inventory View = "/inventory"
)

// Navigator records view changes requested by the flows.
type Navigator struct {
	mu      sync.RWMutex
	current View
}

// New returns a navigator positioned on the login view.
func New() *Navigator {
	return &Navigator{current: Login}
}

// Navigate switches the active view.
func (n *Navigator) Navigate(view View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = view
}

// Current returns the active view.
func (n *Navigator) Current() View {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}
