package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "navigation", "sounds", "bound", "pack"
}

// Key returns the binding as a bubbles key binding, using the first key
// for help text.
func (b Binding) Key() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(b.Keys[0], b.Description),
	)
}

// All contains all key bindings, in help order.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
	{ActionHelp, []string{"?"}, "help", "global"},

	// Navigation
	{ActionMoveUp, []string{"k", "up"}, "up", "navigation"},
	{ActionMoveDown, []string{"j", "down"}, "down", "navigation"},
	{ActionJumpStart, []string{"g", "home"}, "first", "navigation"},
	{ActionJumpEnd, []string{"G", "end"}, "last", "navigation"},

	// Sounds
	{ActionPlay, []string{"enter"}, "play", "sounds"},
	{ActionStop, []string{"s"}, "stop sound", "sounds"},
	{ActionStopAll, []string{"S"}, "stop all", "sounds"},
	{ActionVolumeUp, []string{"+", "="}, "volume up", "sounds"},
	{ActionVolumeDown, []string{"-"}, "volume down", "sounds"},

	// Bound playback
	{ActionToggleBound, []string{" "}, "toggle bound", "bound"},
	{ActionToggleMode, []string{"m"}, "reset/continue", "bound"},
	{ActionCycleRepeat, []string{"l"}, "repeat", "bound"},
	{ActionTogglePlayer, []string{"p"}, "player", "bound"},

	// Pack
	{ActionImport, []string{"i"}, "import to pack", "pack"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
