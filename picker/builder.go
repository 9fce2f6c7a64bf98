package picker

import (
	"path"

	"github.com/rs/zerolog"

	"github.com/rotdrop/filepicker/events"
	"github.com/rotdrop/filepicker/internal/constants"
	"github.com/rotdrop/filepicker/internal/logging"
	"github.com/rotdrop/filepicker/internal/validation"
)

// DialogType selects a canned button set for the common picker flavors.
type DialogType int

const (
	TypeChoose DialogType = iota
	TypeCopy
	TypeMove
	TypeCopyMove
)

// Builder assembles a picker session. All With methods return the
// builder for chaining.
type Builder struct {
	caption     string
	multi       bool
	dirsAllowed bool
	mimeFilter  []string
	predicate   func(Entry) bool
	startPath   string
	pathContext string
	svc         ListingService
	settings    SettingsProvider
	bus         *events.Bus
	log         zerolog.Logger
	logSet      bool
	factory     ButtonFactory
	factoryKind string
}

// NewPicker starts building a picker session with the given dialog
// caption.
func NewPicker(caption string) *Builder {
	return &Builder{caption: caption}
}

// WithMultiSelect allows selecting more than one entry.
func (b *Builder) WithMultiSelect(multi bool) *Builder {
	b.multi = multi
	return b
}

// WithMimeTypeFilter restricts pickable files to the given mime types.
// A pattern is either a full type like "text/plain" or a media-type
// prefix like "image/*". Folders always pass so the tree stays
// navigable.
func (b *Builder) WithMimeTypeFilter(patterns ...string) *Builder {
	b.mimeFilter = patterns
	return b
}

// WithDirectoriesAllowed lets a confirm with nothing selected resolve
// to the directory being looked at.
func (b *Builder) WithDirectoriesAllowed(allowed bool) *Builder {
	b.dirsAllowed = allowed
	return b
}

// WithStartPath sets the directory the session opens in, overriding any
// remembered path for the path context.
func (b *Builder) WithStartPath(p string) *Builder {
	b.startPath = p
	return b
}

// WithPathContext names the slot the last visited directory is
// remembered under across sessions. Empty disables remembering.
func (b *Builder) WithPathContext(context string) *Builder {
	b.pathContext = context
	return b
}

// WithFilterPredicate installs a caller-defined filter applied after
// the built-in pipeline stages.
func (b *Builder) WithFilterPredicate(pred func(Entry) bool) *Builder {
	b.predicate = pred
	return b
}

// WithButtons configures a fixed button row. Configuring buttons when a
// factory (or earlier button set) is already present logs a warning and
// replaces it.
func (b *Builder) WithButtons(specs ...ButtonSpec) *Builder {
	b.setFactory(staticButtons(specs), "buttons")
	return b
}

// WithButtonFactory configures a dynamic button row recomputed on every
// state change. Replaces any previously configured buttons with a
// warning.
func (b *Builder) WithButtonFactory(factory ButtonFactory) *Builder {
	b.setFactory(factory, "button factory")
	return b
}

// WithType configures the canned button set for one of the classic
// dialog flavors. Replaces any previously configured buttons with a
// warning.
func (b *Builder) WithType(t DialogType) *Builder {
	b.setFactory(presetFactory(t), "dialog type preset")
	return b
}

func (b *Builder) setFactory(factory ButtonFactory, kind string) {
	if b.factory != nil {
		log := b.logger()
		log.Warn().
			Str("previous", b.factoryKind).
			Str("replacement", kind).
			Msg("Button configuration already set, replacing")
	}
	b.factory = factory
	b.factoryKind = kind
}

// WithListingService sets the backend the session lists and creates
// nodes through. Required.
func (b *Builder) WithListingService(svc ListingService) *Builder {
	b.svc = svc
	return b
}

// WithSettings sets the user-settings source consulted for hidden-file
// visibility. Defaults to hiding hidden files.
func (b *Builder) WithSettings(settings SettingsProvider) *Builder {
	b.settings = settings
	return b
}

// WithBus sets the event bus state changes are published on. A private
// bus is created when none is given.
func (b *Builder) WithBus(bus *events.Bus) *Builder {
	b.bus = bus
	return b
}

// WithLogger sets the logger used by the session and the builder.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	b.logSet = true
	return b
}

func (b *Builder) logger() zerolog.Logger {
	if !b.logSet {
		b.log = logging.NewDefaultLogger()
		b.logSet = true
	}
	return b.log
}

// Build creates the session. The initial listing is not fetched yet;
// the frontend triggers it with Session.Refresh once it is ready to
// receive events.
func (b *Builder) Build() (*Session, error) {
	if b.svc == nil {
		return nil, ErrNoListingService
	}
	start := b.startPath
	if start == "" {
		start = recallPath(b.pathContext, "/")
	}
	normalized := validation.NormalizeRemotePath(start)
	settings := b.settings
	if settings == nil {
		settings = StaticSettings{}
	}
	bus := b.bus
	if bus == nil {
		bus = events.NewBus(constants.EventBusDefaultBuffer)
	}
	s := &Session{
		svc:         b.svc,
		settings:    settings,
		bus:         bus,
		log:         b.logger(),
		caption:     b.caption,
		multi:       b.multi,
		dirsAllowed: b.dirsAllowed,
		mimeFilter:  b.mimeFilter,
		predicate:   b.predicate,
		pathContext: b.pathContext,
		factory:     b.factory,
		filesPath:   normalized,
		done:        make(chan struct{}),
	}
	s.state = NewListState(ViewFiles, normalized, b.multi, bus)
	return s, nil
}

// presetFactory builds the button row for the classic dialog flavors.
// Copy and move labels name the directory the pick lands in.
func presetFactory(t DialogType) ButtonFactory {
	return func(_ []Entry, current string, _ View) []ButtonSpec {
		target := path.Base(current)
		if target == "/" || target == "." {
			target = "/"
		}
		switch t {
		case TypeCopy:
			return []ButtonSpec{
				{Label: "Copy to " + target, Kind: ButtonPrimary},
			}
		case TypeMove:
			return []ButtonSpec{
				{Label: "Move to " + target, Kind: ButtonPrimary},
			}
		case TypeCopyMove:
			return []ButtonSpec{
				{Label: "Copy to " + target, Kind: ButtonSecondary},
				{Label: "Move to " + target, Kind: ButtonPrimary},
			}
		default:
			return []ButtonSpec{
				{Label: "Choose", Kind: ButtonPrimary},
			}
		}
	}
}
