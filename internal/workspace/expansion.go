package workspace

// ExpansionState is the set of directory paths currently shown expanded.
//
// It is owned by the view and deliberately independent of the tree
// snapshot: a refresh never invalidates it. If an expanded path disappears
// from the new tree its entry simply goes inert, and the directory reopens
// in place if the agent recreates it. Not safe for concurrent use; the
// owning view mutates it only from its own event loop.
type ExpansionState struct {
	open map[string]struct{}
}

// NewExpansionState returns an empty expansion set.
func NewExpansionState() *ExpansionState {
	return &ExpansionState{open: make(map[string]struct{})}
}

// Toggle flips the expansion of path and reports the new state.
func (e *ExpansionState) Toggle(path string) bool {
	if _, ok := e.open[path]; ok {
		delete(e.open, path)
		return false
	}
	e.open[path] = struct{}{}
	return true
}

// IsExpanded reports whether path is currently expanded.
func (e *ExpansionState) IsExpanded(path string) bool {
	_, ok := e.open[path]
	return ok
}

// Expand marks path expanded regardless of current state.
func (e *ExpansionState) Expand(path string) {
	e.open[path] = struct{}{}
}

// Collapse removes path from the expanded set.
func (e *ExpansionState) Collapse(path string) {
	delete(e.open, path)
}

// Len returns the number of expanded entries, inert ones included.
func (e *ExpansionState) Len() int {
	return len(e.open)
}
