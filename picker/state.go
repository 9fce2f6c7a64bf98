package picker

import (
	"sync"

	"github.com/rotdrop/filepicker/events"
)

// listKey identifies a listing fetch. In-flight fetches are keyed by
// the (view, path) pair they were issued for; results whose key no
// longer matches the current state are discarded so a stale fetch can
// never overwrite state belonging to a newer path or view.
type listKey struct {
	view View
	path string
}

// ListState is the single source of truth for "what is currently being
// looked at" and "what is currently chosen". It is an observable
// container: every mutation publishes an event on the bus.
// Thread-safe for concurrent access.
type ListState struct {
	bus *events.Bus

	mu         sync.RWMutex
	view       View
	path       string
	filterText string
	entries    []Entry
	selection  []Entry
	multi      bool
	loading    bool
	lastError  error
}

// NewListState creates a ListState rooted at the given view and path.
func NewListState(view View, path string, multi bool, bus *events.Bus) *ListState {
	if !view.Navigable() {
		path = "/"
	}
	return &ListState{
		bus:   bus,
		view:  view,
		path:  path,
		multi: multi,
	}
}

// Context returns the current (view, path) pair.
func (s *ListState) Context() (View, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view, s.path
}

// View returns the active view.
func (s *ListState) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Path returns the current path.
func (s *ListState) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// setContext switches the browsing context. Any path change clears the
// selection: navigation invalidates prior picks.
func (s *ListState) setContext(view View, path string, viewChanged bool) listKey {
	s.mu.Lock()
	pathChanged := s.path != path
	s.view = view
	s.path = path
	if pathChanged {
		s.selection = nil
	}
	selection := s.selectionLocked()
	s.mu.Unlock()

	if s.bus != nil {
		if viewChanged {
			s.bus.Publish(newViewChangedEvent(view, path))
		}
		if pathChanged {
			s.bus.Publish(newPathChangedEvent(view, path))
			s.bus.Publish(newSelectionChangedEvent(selection))
		}
	}
	return listKey{view: view, path: path}
}

// SetFilterText updates the free-text query. Filtering is local over
// the already-fetched listing; no refetch happens.
func (s *ListState) SetFilterText(text string) {
	s.mu.Lock()
	s.filterText = text
	s.mu.Unlock()
}

// FilterText returns the current free-text query.
func (s *ListState) FilterText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterText
}

// beginFetch marks the state as loading and returns the key the fetch
// belongs to.
func (s *ListState) beginFetch() listKey {
	s.mu.Lock()
	s.loading = true
	key := listKey{view: s.view, path: s.path}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(newListingLoadingEvent(key.view, key.path, true))
	}
	return key
}

// completeFetch applies a fetched listing if the key still matches the
// current state. Returns false when the result was stale and discarded.
func (s *ListState) completeFetch(key listKey, entries []Entry) bool {
	s.mu.Lock()
	if s.view != key.view || s.path != key.path {
		s.mu.Unlock()
		return false
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)
	s.entries = sorted
	s.loading = false
	s.lastError = nil
	published := make([]Entry, len(sorted))
	copy(published, sorted)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(newListingLoadingEvent(key.view, key.path, false))
		s.bus.Publish(newListingChangedEvent(key.view, key.path, published))
	}
	return true
}

// failFetch records a fetch failure if the key still matches. The
// previous listing is left in place so the view stays recoverable; no
// automatic retry happens.
func (s *ListState) failFetch(key listKey, err error) bool {
	s.mu.Lock()
	if s.view != key.view || s.path != key.path {
		s.mu.Unlock()
		return false
	}
	s.loading = false
	s.lastError = err
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(newListingLoadingEvent(key.view, key.path, false))
		s.bus.Publish(newListingErrorEvent(key.view, key.path, err))
	}
	return true
}

// Loading reports whether a listing fetch is in flight.
func (s *ListState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ListingError returns the error flag of the last failed fetch, or nil
// after a successful one.
func (s *ListState) ListingError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Entries returns a copy of the latest fetched listing, unfiltered.
func (s *ListState) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// VisibleEntries returns the filter pipeline output over the latest
// fetched listing.
func (s *ListState) VisibleEntries(c Criteria) []Entry {
	s.mu.RLock()
	entries := s.entries
	c.Query = s.filterText
	s.mu.RUnlock()
	return ApplyFilters(entries, c)
}

// ToggleSelect adds or removes an entry from the selection. In
// single-select mode a new selection replaces the existing one.
// Selection mutation is synchronous and independent of pending fetches.
func (s *ListState) ToggleSelect(entry Entry) {
	s.mu.Lock()
	removed := false
	for i, e := range s.selection {
		if e.Path == entry.Path {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		if s.multi {
			s.selection = append(s.selection, entry)
		} else {
			s.selection = []Entry{entry}
		}
	}
	selection := s.selectionLocked()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(newSelectionChangedEvent(selection))
	}
}

// ClearSelection empties the selection.
func (s *ListState) ClearSelection() {
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(newSelectionChangedEvent(nil))
	}
}

// IsSelected reports whether the entry at the given path is selected.
func (s *ListState) IsSelected(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.selection {
		if e.Path == path {
			return true
		}
	}
	return false
}

// Selection returns the selected entries in the order the user picked
// them.
func (s *ListState) Selection() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectionLocked()
}

// SelectionCount returns the number of selected entries.
func (s *ListState) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selection)
}

// selectionLocked returns a copy of the selection (must hold lock).
func (s *ListState) selectionLocked() []Entry {
	out := make([]Entry, len(s.selection))
	copy(out, s.selection)
	return out
}

// findByName looks up an entry in the current listing by basename.
func (s *ListState) findByName(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Headline derives the label shown above the listing: the view's
// display name for favorites and recent, empty for files where the
// frontend renders path breadcrumbs instead.
func (s *ListState) Headline() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.view.Navigable() {
		return ""
	}
	return s.view.DisplayName()
}
