package picker

import (
	"time"

	"github.com/rotdrop/filepicker/events"
)

// Picker event types published on the session's bus.
const (
	EventListingChanged   events.EventType = "listing_changed"
	EventListingLoading   events.EventType = "listing_loading"
	EventListingError     events.EventType = "listing_error"
	EventSelectionChanged events.EventType = "selection_changed"
	EventPathChanged      events.EventType = "path_changed"
	EventViewChanged      events.EventType = "view_changed"

	// EventNodeCreated is the process-wide "node created" notification
	// emitted after a successful folder creation.
	EventNodeCreated events.EventType = "node_created"
)

// ListingChangedEvent is published when the fetched listing changes.
type ListingChangedEvent struct {
	events.BaseEvent
	View    View
	Path    string
	Entries []Entry
}

// ListingLoadingEvent is published when a listing fetch starts or ends.
type ListingLoadingEvent struct {
	events.BaseEvent
	View    View
	Path    string
	Loading bool
}

// ListingErrorEvent is published when a listing fetch fails.
type ListingErrorEvent struct {
	events.BaseEvent
	View View
	Path string
	Err  error
}

// SelectionChangedEvent is published when the selection changes.
type SelectionChangedEvent struct {
	events.BaseEvent
	Selection []Entry
}

// PathChangedEvent is published when the current path changes.
type PathChangedEvent struct {
	events.BaseEvent
	View View
	Path string
}

// ViewChangedEvent is published when the active view changes.
type ViewChangedEvent struct {
	events.BaseEvent
	View View
	Path string
}

// NodeCreatedEvent carries the freshly created entry after a
// successful folder creation.
type NodeCreatedEvent struct {
	events.BaseEvent
	Entry Entry
}

func newListingChangedEvent(view View, path string, entries []Entry) *ListingChangedEvent {
	return &ListingChangedEvent{
		BaseEvent: events.BaseEvent{EventType: EventListingChanged, Time: time.Now()},
		View:      view,
		Path:      path,
		Entries:   entries,
	}
}

func newListingLoadingEvent(view View, path string, loading bool) *ListingLoadingEvent {
	return &ListingLoadingEvent{
		BaseEvent: events.BaseEvent{EventType: EventListingLoading, Time: time.Now()},
		View:      view,
		Path:      path,
		Loading:   loading,
	}
}

func newListingErrorEvent(view View, path string, err error) *ListingErrorEvent {
	return &ListingErrorEvent{
		BaseEvent: events.BaseEvent{EventType: EventListingError, Time: time.Now()},
		View:      view,
		Path:      path,
		Err:       err,
	}
}

func newSelectionChangedEvent(selection []Entry) *SelectionChangedEvent {
	return &SelectionChangedEvent{
		BaseEvent: events.BaseEvent{EventType: EventSelectionChanged, Time: time.Now()},
		Selection: selection,
	}
}

func newPathChangedEvent(view View, path string) *PathChangedEvent {
	return &PathChangedEvent{
		BaseEvent: events.BaseEvent{EventType: EventPathChanged, Time: time.Now()},
		View:      view,
		Path:      path,
	}
}

func newViewChangedEvent(view View, path string) *ViewChangedEvent {
	return &ViewChangedEvent{
		BaseEvent: events.BaseEvent{EventType: EventViewChanged, Time: time.Now()},
		View:      view,
		Path:      path,
	}
}

// NewNodeCreatedEvent creates a NodeCreatedEvent.
func NewNodeCreatedEvent(entry Entry) *NodeCreatedEvent {
	return &NodeCreatedEvent{
		BaseEvent: events.BaseEvent{EventType: EventNodeCreated, Time: time.Now()},
		Entry:     entry,
	}
}
