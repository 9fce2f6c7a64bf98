package picker

import (
	"context"
	"fmt"
)

// ButtonKind tells the frontend how to render a button.
type ButtonKind int

const (
	ButtonSecondary ButtonKind = iota
	ButtonPrimary
)

// String returns the frontend-facing kind name.
func (k ButtonKind) String() string {
	if k == ButtonPrimary {
		return "primary"
	}
	return "secondary"
}

// ButtonSpec describes one confirm button. OnClick, when set, runs with
// the resolved nodes before the session completes; it cannot veto the
// pick.
type ButtonSpec struct {
	Label   string
	Kind    ButtonKind
	Icon    string
	OnClick func(nodes []Entry, path string, view View)
}

// ButtonFactory computes the button row for the current state. It is
// called on every selection, path, and view change for display, and
// once more when a button is clicked, so labels and button counts may
// depend on what is selected and where the user is.
type ButtonFactory func(selection []Entry, path string, view View) []ButtonSpec

// staticButtons wraps a fixed button row as a factory.
func staticButtons(specs []ButtonSpec) ButtonFactory {
	return func([]Entry, string, View) []ButtonSpec {
		return specs
	}
}

// Action is a resolved button the frontend can render and trigger.
type Action struct {
	Label string
	Kind  ButtonKind
	Icon  string

	index   int
	session *Session
}

// Buttons resolves the configured button factory against the current
// state. Frontends call this again after every state event.
func (s *Session) Buttons() []Action {
	s.buttonMu.Lock()
	factory := s.factory
	s.buttonMu.Unlock()
	if factory == nil {
		return nil
	}
	view, path := s.state.Context()
	specs := factory(s.state.Selection(), path, view)
	actions := make([]Action, len(specs))
	for i, spec := range specs {
		actions[i] = Action{
			Label:   spec.Label,
			Kind:    spec.Kind,
			Icon:    spec.Icon,
			index:   i,
			session: s,
		}
	}
	return actions
}

// Trigger clicks the button. The factory is re-invoked so the click
// handler sees buttons computed from the state at click time, not from
// when the row was last rendered. Every button confirms the session;
// dismissal goes through Session.Close instead.
func (a Action) Trigger(ctx context.Context) error {
	s := a.session
	if s == nil {
		return fmt.Errorf("action is not bound to a session")
	}
	if s.completed() {
		return ErrSessionCompleted
	}
	s.buttonMu.Lock()
	factory := s.factory
	s.buttonMu.Unlock()
	if factory == nil {
		return fmt.Errorf("session has no buttons configured")
	}
	view, path := s.state.Context()
	specs := factory(s.state.Selection(), path, view)
	if a.index < 0 || a.index >= len(specs) {
		return fmt.Errorf("button %d no longer exists, have %d", a.index, len(specs))
	}
	spec := specs[a.index]

	nodes, err := s.resolveNodes(ctx)
	if err != nil {
		return err
	}
	if spec.OnClick != nil {
		spec.OnClick(nodes, path, view)
	}
	s.complete(entryPaths(nodes), nil)
	return nil
}
