// Package keymap defines the soundboard key bindings and resolves key
// presses to actions.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"

	// Fire-and-forget playback
	ActionPlay       Action = "play"        // enter
	ActionStop       Action = "stop"        // s - stop the selected name
	ActionStopAll    Action = "stop_all"    // S
	ActionVolumeUp   Action = "volume_up"   // +
	ActionVolumeDown Action = "volume_down" // -

	// Bound playback
	ActionToggleBound  Action = "toggle_bound"  // space - flip the row's flag
	ActionToggleMode   Action = "toggle_mode"   // m - reset/continue
	ActionCycleRepeat  Action = "cycle_repeat"  // l - 0, 1, 3, continuous
	ActionTogglePlayer Action = "toggle_player" // p - bound player play/stop

	// Pack management
	ActionImport Action = "import" // i - import sound dirs into the pack
)
