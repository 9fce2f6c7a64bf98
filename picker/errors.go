package picker

import "errors"

// ErrPickerClosed is the distinguished rejection returned by Pick when
// the dialog is dismissed without a confirming action. Callers can
// branch on it with errors.Is to tell "user cancelled" from "something
// broke".
var ErrPickerClosed = errors.New("file picker closed without selection")

// ErrNothingSelected is returned by Confirm when the selection is empty
// and directory picks are not allowed. The session stays open.
var ErrNothingSelected = errors.New("nothing selected")

// ErrNotNavigable is returned by Navigate when the active view does not
// support path navigation.
var ErrNotNavigable = errors.New("view does not support navigation")

// ErrSessionCompleted is returned by confirming operations invoked
// after the session already produced its result. Close stays a no-op
// so repeated dismissal events never error.
var ErrSessionCompleted = errors.New("picker session already completed")

// ErrNoListingService is returned by Build when no listing service was
// configured.
var ErrNoListingService = errors.New("no listing service configured")
