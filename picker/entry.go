// Package picker implements the selection-and-navigation core of a
// file-picker dialog for a remote (WebDAV-like) file store.
//
// The package is frontend-agnostic: a Session owns the browsing state
// (view, path, filter text, selection), derives the visible entry list
// through a pure filter pipeline, and completes exactly once with the
// confirmed selection or with ErrPickerClosed. Frontends observe the
// session through an events.Bus and drive it through its intent
// methods (SetView, Navigate, SetFilterText, ToggleSelect, ...).
package picker

import (
	"context"
	"sort"
	"strings"
	"time"
)

// View identifies one of the logical browsing contexts.
type View int

const (
	// ViewFiles browses the full file tree; the only navigable view.
	ViewFiles View = iota
	// ViewFavorites lists entries the user marked as favorite.
	ViewFavorites
	// ViewRecent lists recently modified entries.
	ViewRecent
)

// String returns the stable wire/config name of the view.
func (v View) String() string {
	switch v {
	case ViewFavorites:
		return "favorites"
	case ViewRecent:
		return "recent"
	default:
		return "files"
	}
}

// DisplayName returns the human-readable name of the view.
func (v View) DisplayName() string {
	switch v {
	case ViewFavorites:
		return "Favorites"
	case ViewRecent:
		return "Recent"
	default:
		return "All files"
	}
}

// Navigable reports whether path navigation is meaningful in this view.
// Favorites and recent are always rooted at "/".
func (v View) Navigable() bool {
	return v == ViewFiles
}

// Entry is an immutable snapshot of a file-system node as returned by
// the remote listing service. The picker holds entries only for the
// duration of a listing.
type Entry struct {
	// Path is the node's identity: a normalized forward-slash path.
	Path string

	// Name is the basename of Path.
	Name string

	// DisplayName is a provider-supplied label; empty means Name.
	DisplayName string

	// IsDir reports whether the node is a folder.
	IsDir bool

	// MimeType is empty for folders and for providers that do not
	// report one.
	MimeType string

	Size     int64
	Modified time.Time
	ETag     string
}

// Label returns the preferred display label for the entry.
func (e Entry) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}

// ListingService is the remote file store consumed by the picker.
// Implementations must be safe for concurrent use.
type ListingService interface {
	// List returns the children of path in the given view. For
	// non-navigable views the path is always "/".
	List(ctx context.Context, view View, path string) ([]Entry, error)

	// CreateDirectory creates a collection at the given path.
	CreateDirectory(ctx context.Context, path string) error

	// GetEntry fetches a single entry by path. Used for the
	// implicit-directory-selection fallback on confirm.
	GetEntry(ctx context.Context, path string) (Entry, error)
}

// SettingsProvider exposes read-only user settings consumed by the
// picker. Values may change after construction (settings load
// asynchronously); the picker re-reads them on every derivation.
type SettingsProvider interface {
	// ShowHiddenFiles reports whether dot-entries should be visible.
	ShowHiddenFiles() bool
}

// StaticSettings is a SettingsProvider with fixed values.
type StaticSettings struct {
	Hidden bool
}

func (s StaticSettings) ShowHiddenFiles() bool { return s.Hidden }

// sortEntries orders a listing for display: folders first, then
// case-insensitive name ascending. The sort is stable so the provider
// order breaks ties.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
