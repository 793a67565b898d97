package soundboard

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/soundfx/internal/errmsg"
	"github.com/llehouerou/soundfx/internal/keymap"
	"github.com/llehouerou/soundfx/internal/notify"
	"github.com/llehouerou/soundfx/internal/sfx"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SoundsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = errmsg.FormatWith(errmsg.OpPackList, m.bundleLabel(), msg.Err)
			return m, nil
		}
		m.setRows(msg.Entries)
		return m, nil

	case ImportDoneMsg:
		if msg.Err != nil {
			m.err = errmsg.Format(errmsg.OpPackImport, msg.Err)
			m.notifyImport(notify.UrgencyCritical, m.err)
			return m, nil
		}
		m.err = ""
		m.status = fmt.Sprintf("Imported %d sounds", msg.Count)
		m.notifyImport(notify.UrgencyNormal, m.status)
		return m, listSoundsCmd(m.bundle)

	case TickMsg:
		m.active = m.reg.Active()
		return m, tickCmd()

	case flagChangedMsg:
		m.active = m.reg.Active()
		return m, waitForEventCmd(m.events)

	case playedMsg:
		m.active = m.reg.Active()
		m.status = "Finished " + msg.name
		return m, waitForEventCmd(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg)
	switch action {
	case keymap.ActionQuit:
		m.Close()
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case keymap.ActionMoveUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case keymap.ActionMoveDown:
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case keymap.ActionJumpStart:
		m.cursor = 0
	case keymap.ActionJumpEnd:
		m.cursor = max(len(m.rows)-1, 0)
	case keymap.ActionStopAll:
		m.reg.StopAll()
		m.status = "Stopped all sounds"
	case keymap.ActionVolumeUp:
		m.changeVolume(volumeStep)
	case keymap.ActionVolumeDown:
		m.changeVolume(-volumeStep)
	case keymap.ActionImport:
		if m.imp == nil {
			return m, nil
		}
		m.status = "Importing sounds..."
		return m, importCmd(m.imp)
	case keymap.ActionPlay, keymap.ActionStop, keymap.ActionToggleBound,
		keymap.ActionToggleMode, keymap.ActionCycleRepeat, keymap.ActionTogglePlayer:
		if r := m.selected(); r != nil {
			m.handleRowAction(action, r)
		}
	}
	m.active = m.reg.Active()
	return m, nil
}

func (m *Model) handleRowAction(action keymap.Action, r *row) {
	name := r.entry.Name
	switch action {
	case keymap.ActionPlay:
		m.reg.Play(name, m.bundle, m.volume, r.repeat, func() {
			m.post(playedMsg{name: name})
		})
		m.status = "Playing " + name
	case keymap.ActionStop:
		m.reg.Stop(name)
		m.status = "Stopped " + name
	case keymap.ActionToggleBound:
		m.toggleBound(r)
	case keymap.ActionToggleMode:
		if r.mode == sfx.Reset {
			r.mode = sfx.Continue
		} else {
			r.mode = sfx.Reset
		}
		m.syncRow(r)
		m.status = fmt.Sprintf("%s: %s", name, r.mode)
	case keymap.ActionCycleRepeat:
		i := slices.Index(repeatCycle, r.repeat)
		r.repeat = repeatCycle[(i+1)%len(repeatCycle)]
		m.syncRow(r)
		m.status = fmt.Sprintf("%s: repeat %s", name, r.repeat)
	case keymap.ActionTogglePlayer:
		m.togglePlayer(r)
	}
}

// toggleBound flips the row's flag, attaching its binding first.
func (m *Model) toggleBound(r *row) {
	if r.binding == nil {
		r.binding = m.reg.Bind(r.flag, m.bindOptions(r))
		if err := r.binding.Attach(); err != nil {
			m.err = err.Error()
		}
	}
	r.flag.Set(!r.flag.Get())
}

func (m *Model) togglePlayer(r *row) {
	if r.player == nil {
		p, err := m.reg.NewPlayer(r.entry.Name, m.bundle, sfx.PlayerOptions{
			Volume: m.volume,
			Repeat: r.repeat,
			Mode:   r.mode,
		})
		if err != nil {
			m.err = err.Error()
			return
		}
		name := r.entry.Name
		r.player = p
		r.playerUnsub = p.Playing().Subscribe(func(on bool) {
			m.post(flagChangedMsg{name: name, on: on})
		})
	}
	m.remote.SetPlayer(r.entry.Name, r.player)
	m.remoteName = r.entry.Name
	if r.player.IsPlaying() {
		r.player.Stop()
		return
	}
	m.err = ""
	r.player.Play()
}

// syncRow pushes the row's mode and repeat to its binding and player.
func (m *Model) syncRow(r *row) {
	if r.binding != nil {
		if err := r.binding.Update(m.bindOptions(r)); err != nil {
			m.err = err.Error()
		}
	}
	if r.player != nil {
		r.player.SetMode(r.mode)
		r.player.SetRepeat(r.repeat)
	}
}

func (m *Model) changeVolume(delta float64) {
	m.volume = min(max(m.volume+delta, 0), 1)
	m.reg.SetVolume("", m.volume, m.fade)
	for _, r := range m.rows {
		if r.binding != nil {
			if err := r.binding.Update(m.bindOptions(r)); err != nil {
				m.err = err.Error()
			}
		}
		if r.player != nil {
			r.player.SetVolume(m.volume, m.fade)
		}
	}
	m.status = fmt.Sprintf("Volume %d%%", m.volumePercent())
}

func (m *Model) volumePercent() int {
	return int(m.volume*100 + 0.5)
}

func (m *Model) bundleLabel() string {
	if m.bundle == nil {
		return ""
	}
	return m.bundle.String()
}

func (m *Model) notifyImport(urgency notify.Urgency, body string) {
	_, err := m.notifier.Notify(notify.Notification{
		Title:   "soundfx import",
		Body:    body,
		Timeout: -1,
		Urgency: urgency,
	})
	if err != nil {
		m.logger.Warn("desktop notification failed", "error", err)
	}
}
