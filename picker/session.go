package picker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rotdrop/filepicker/events"
	"github.com/rotdrop/filepicker/internal/validation"
)

// Session is a single run of the file picker. A frontend drives it
// through navigation and selection operations while the owner waits on
// Pick for the outcome. A session resolves exactly once: through a
// confirm, a button action, a close, or context cancellation.
type Session struct {
	svc      ListingService
	settings SettingsProvider
	bus      *events.Bus
	state    *ListState
	log      zerolog.Logger

	caption     string
	multi       bool
	dirsAllowed bool
	mimeFilter  []string
	predicate   func(Entry) bool
	pathContext string

	buttonMu sync.Mutex
	factory  ButtonFactory

	// filesPath is the last directory navigated to on the files view,
	// restored when switching back from favorites or recent. Session
	// local; the process-wide store only seeds the start path.
	pathMu    sync.Mutex
	filesPath string

	once   sync.Once
	done   chan struct{}
	result []string
	err    error
}

// Caption returns the dialog title the session was built with.
func (s *Session) Caption() string {
	return s.caption
}

// MultiSelect reports whether more than one entry may be selected.
func (s *Session) MultiSelect() bool {
	return s.multi
}

// Bus returns the event bus the session publishes on.
func (s *Session) Bus() *events.Bus {
	return s.bus
}

// State returns the observable listing state for read access.
func (s *Session) State() *ListState {
	return s.state
}

// SetView switches the active view. Leaving the files view forces the
// path to "/" because favorites and recent are flat listings; returning
// to it restores the last visited directory.
func (s *Session) SetView(ctx context.Context, view View) {
	currentView, currentPath := s.state.Context()
	if view == currentView {
		return
	}
	path := "/"
	if view.Navigable() {
		path = s.lastFilesPath()
	} else if currentView.Navigable() {
		s.setLastFilesPath(currentPath)
	}
	key := s.state.setContext(view, path, true)
	s.fetch(ctx, key)
}

// Navigate changes the current directory. Only the files view is
// navigable; other views return ErrNotNavigable. The path is normalized
// before use. Fetch failures are not returned here: the previous
// listing stays visible and ListingError carries the flag.
func (s *Session) Navigate(ctx context.Context, path string) error {
	view, _ := s.state.Context()
	if !view.Navigable() {
		return ErrNotNavigable
	}
	if err := validation.ValidateRemotePath(path); err != nil {
		return err
	}
	normalized := validation.NormalizeRemotePath(path)
	key := s.state.setContext(view, normalized, false)
	s.setLastFilesPath(normalized)
	rememberPath(s.pathContext, normalized)
	s.fetch(ctx, key)
	return nil
}

func (s *Session) lastFilesPath() string {
	s.pathMu.Lock()
	defer s.pathMu.Unlock()
	if s.filesPath == "" {
		return "/"
	}
	return s.filesPath
}

func (s *Session) setLastFilesPath(path string) {
	s.pathMu.Lock()
	s.filesPath = path
	s.pathMu.Unlock()
}

// Refresh re-fetches the current listing.
func (s *Session) Refresh(ctx context.Context) {
	s.fetch(ctx, s.state.beginFetch())
}

// fetch runs the listing service for the given key and applies the
// result through the state's staleness gate.
func (s *Session) fetch(ctx context.Context, key listKey) {
	entries, err := s.svc.List(ctx, key.view, key.path)
	if err != nil {
		s.log.Warn().Err(err).
			Str("view", key.view.String()).
			Str("path", key.path).
			Msg("Listing fetch failed")
		s.state.failFetch(key, err)
		return
	}
	if !s.state.completeFetch(key, entries) {
		s.log.Debug().
			Str("view", key.view.String()).
			Str("path", key.path).
			Msg("Discarded stale listing result")
	}
}

// SetFilterText updates the free-text filter over the current listing.
func (s *Session) SetFilterText(text string) {
	s.state.SetFilterText(text)
}

// ToggleSelect toggles selection of the listed entry at the given path.
// The entry must be part of the current listing.
func (s *Session) ToggleSelect(path string) error {
	for _, e := range s.state.Entries() {
		if e.Path == path {
			s.state.ToggleSelect(e)
			return nil
		}
	}
	return fmt.Errorf("entry %q is not in the current listing", path)
}

// ClearSelection drops all selected entries.
func (s *Session) ClearSelection() {
	s.state.ClearSelection()
}

// Selection returns the selected entries in pick order.
func (s *Session) Selection() []Entry {
	return s.state.Selection()
}

// VisibleEntries applies the filter pipeline to the current listing.
func (s *Session) VisibleEntries() []Entry {
	return s.state.VisibleEntries(s.criteria())
}

// ListingError returns the error of the last failed fetch, if any.
func (s *Session) ListingError() error {
	return s.state.ListingError()
}

// Headline returns the label shown above the listing.
func (s *Session) Headline() string {
	return s.state.Headline()
}

func (s *Session) criteria() Criteria {
	show := false
	if s.settings != nil {
		show = s.settings.ShowHiddenFiles()
	}
	return Criteria{
		ShowHidden: show,
		MimeFilter: s.mimeFilter,
		Predicate:  s.predicate,
	}
}

// CreateFolder creates a directory under the current path, refreshes
// the listing, and announces the new node when it shows up in the fresh
// listing. On failure the error is returned and nothing changes.
func (s *Session) CreateFolder(ctx context.Context, name string) error {
	view, path := s.state.Context()
	if !view.Navigable() {
		return ErrNotNavigable
	}
	if err := validation.ValidateNodeName(name); err != nil {
		return err
	}
	target := validation.JoinRemote(path, name)
	if err := s.svc.CreateDirectory(ctx, target); err != nil {
		return fmt.Errorf("creating folder %q: %w", target, err)
	}
	s.Refresh(ctx)
	if entry, ok := s.state.findByName(name); ok {
		if s.bus != nil {
			s.bus.Publish(NewNodeCreatedEvent(entry))
		}
	} else {
		s.log.Debug().Str("name", name).Msg("Created folder not present in refreshed listing")
	}
	return nil
}

// resolveNodes determines what a confirm resolves to: the selection, or
// the navigated directory itself when directories are allowed and
// nothing is selected. The directory is looked up fresh rather than
// taken from the listing so its metadata is current.
func (s *Session) resolveNodes(ctx context.Context) ([]Entry, error) {
	selection := s.state.Selection()
	if len(selection) > 0 {
		return selection, nil
	}
	if !s.dirsAllowed {
		return nil, ErrNothingSelected
	}
	view, path := s.state.Context()
	if !view.Navigable() {
		return nil, ErrNothingSelected
	}
	entry, err := s.svc.GetEntry(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %q: %w", path, err)
	}
	return []Entry{entry}, nil
}

// completed reports whether the session already resolved.
func (s *Session) completed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Confirm resolves the session with the current selection. With an
// empty selection and directories allowed, the navigated directory is
// picked instead. ErrNothingSelected leaves the session open;
// confirming an already resolved session returns ErrSessionCompleted.
func (s *Session) Confirm(ctx context.Context) error {
	if s.completed() {
		return ErrSessionCompleted
	}
	nodes, err := s.resolveNodes(ctx)
	if err != nil {
		return err
	}
	s.complete(entryPaths(nodes), nil)
	return nil
}

// Close resolves the session as dismissed. Pick returns
// ErrPickerClosed. Closing an already resolved session is a no-op.
func (s *Session) Close() {
	s.complete(nil, ErrPickerClosed)
}

// complete resolves the session exactly once. Later completions lose.
func (s *Session) complete(paths []string, err error) {
	s.once.Do(func() {
		s.result = paths
		s.err = err
		close(s.done)
	})
}

// Done returns a channel closed when the session has resolved.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Pick blocks until the session resolves and returns the picked paths.
// Dismissal yields ErrPickerClosed; context cancellation resolves the
// session with the context's error.
func (s *Session) Pick(ctx context.Context) ([]string, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		s.complete(nil, ctx.Err())
		<-s.done
	}
	return s.result, s.err
}

// PickSingle is Pick for single-select sessions, returning the first
// picked path.
func (s *Session) PickSingle(ctx context.Context) (string, error) {
	paths, err := s.Pick(ctx)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNothingSelected
	}
	return paths[0], nil
}

func entryPaths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
