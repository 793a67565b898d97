package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var _ interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
} = (*Resolver)(nil)

// Resolver maps key presses to actions and provides help for them.
type Resolver struct {
	actions []Action
	keys    map[Action]key.Binding
	groups  [][]key.Binding
}

// NewResolver creates a resolver from bindings. When two bindings share a
// key, the first one wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{keys: make(map[Action]key.Binding)}

	var context string
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		kb := b.Key()
		if _, ok := r.keys[b.Action]; !ok {
			r.actions = append(r.actions, b.Action)
		}
		r.keys[b.Action] = kb

		if len(r.groups) == 0 || b.Context != context {
			r.groups = append(r.groups, nil)
			context = b.Context
		}
		r.groups[len(r.groups)-1] = append(r.groups[len(r.groups)-1], kb)
	}
	return r
}

// Resolve returns the action for a key press, or empty string if not
// bound.
func (r *Resolver) Resolve(msg tea.KeyMsg) Action {
	for _, action := range r.actions {
		if key.Matches(msg, r.keys[action]) {
			return action
		}
	}
	return ""
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action].Keys()
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, action := range []Action{ActionPlay, ActionToggleBound, ActionTogglePlayer, ActionStopAll, ActionHelp, ActionQuit} {
		if kb, ok := r.keys[action]; ok {
			out = append(out, kb)
		}
	}
	return out
}

// FullHelp implements help.KeyMap, one column per context.
func (r *Resolver) FullHelp() [][]key.Binding {
	return r.groups
}
