package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a tea.Model in tests: it feeds messages and key presses
// through Update and keeps the commands returned.
type Harness struct {
	model tea.Model
	cmds  []tea.Cmd
}

// NewHarness wraps m, keeping the command returned by Init.
func NewHarness(m tea.Model) *Harness {
	h := &Harness{model: m}
	if cmd := m.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Model returns the current model for type assertion.
func (h *Harness) Model() tea.Model {
	return h.model
}

// View returns the model's rendered view.
func (h *Harness) View() string {
	return h.model.View()
}

// Send passes msg to Update and returns the resulting command.
func (h *Harness) Send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates a key press. Named keys ("enter", "up", "down",
// "esc", "space" or " ", "ctrl+c") are translated; anything else is sent
// as runes.
func (h *Harness) SendKey(key string) tea.Cmd {
	return h.Send(KeyMsg(key))
}

// KeyMsg builds the tea.KeyMsg bubbletea produces for key.
func KeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ", "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// Commands returns every command collected so far.
func (h *Harness) Commands() []tea.Cmd {
	return h.cmds
}

// ExecuteCmd runs a command and returns its message, or nil.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ExecuteAndSend runs cmd and feeds its message back into the model.
func (h *Harness) ExecuteAndSend(cmd tea.Cmd) (tea.Msg, tea.Cmd) {
	msg := ExecuteCmd(cmd)
	if msg == nil {
		return nil, nil
	}
	return msg, h.Send(msg)
}
