// Package soundboard is a terminal board listing sounds and driving the
// sfx registry, bound players and bindings from key presses.
package soundboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/soundfx/internal/keymap"
	"github.com/llehouerou/soundfx/internal/mpris"
	"github.com/llehouerou/soundfx/internal/notify"
	"github.com/llehouerou/soundfx/internal/observe"
	"github.com/llehouerou/soundfx/internal/resource"
	"github.com/llehouerou/soundfx/internal/sfx"
)

// repeatCycle is the order the repeat key steps through.
var repeatCycle = []sfx.RepeatCount{0, 1, 3, sfx.Continuous}

const (
	volumeStep  = 0.1
	eventBuffer = 16
)

// ImportFunc copies sounds into the pack and returns how many were copied.
type ImportFunc func(ctx context.Context) (int, error)

// Config configures a Model.
type Config struct {
	Registry *sfx.Registry
	Bundle   resource.Bundle
	Volume   float64       // initial volume
	Fade     time.Duration // ramp for volume changes
	Import   ImportFunc    // nil disables the import key
	Notifier notify.Notifier
	Remote   mpris.Remote // publishes the last toggled player
	Logger   *slog.Logger
}

// row is one sound on the board with its bound flag. The binding and the
// player are created on first use.
type row struct {
	entry   resource.Entry
	flag    *observe.Value[bool]
	unsub   func()
	binding *sfx.Binding
	player  *sfx.Player
	// playerUnsub drops the board's subscription to the player's flag
	playerUnsub func()
	mode        sfx.PlayMode
	repeat      sfx.RepeatCount
}

// Model is the soundboard bubbletea model.
type Model struct {
	reg      *sfx.Registry
	bundle   resource.Bundle
	imp      ImportFunc
	notifier notify.Notifier
	logger   *slog.Logger

	remote mpris.Remote
	// remoteName is the row whose player remote publishes
	remoteName string

	keys *keymap.Resolver
	help help.Model

	rows    []*row
	cursor  int
	volume  float64
	fade    time.Duration
	active  []sfx.ActiveSound
	status  string
	err     string
	loading bool

	// events carries flag changes and completions from other goroutines
	events chan tea.Msg

	width  int
	height int
}

// New creates a board for the sounds of cfg.Bundle.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	remote := cfg.Remote
	if remote == nil {
		remote = mpris.Discard
	}
	return &Model{
		notifier: notifier,
		remote:   remote,
		reg:      cfg.Registry,
		bundle:   cfg.Bundle,
		imp:      cfg.Import,
		logger:   logger,
		keys:     keymap.NewResolver(keymap.All),
		help:     help.New(),
		volume:   cfg.Volume,
		fade:     cfg.Fade,
		events:   make(chan tea.Msg, eventBuffer),
		loading:  true,
	}
}

// Init lists the sounds and starts watching flags.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(listSoundsCmd(m.bundle), waitForEventCmd(m.events), tickCmd())
}

// Close releases every binding and player. The registry is owned by the
// caller.
func (m *Model) Close() {
	for _, r := range m.rows {
		m.releaseRow(r)
	}
}

func (m *Model) releaseRow(r *row) {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
	if r.binding != nil {
		r.binding.Detach()
		r.binding = nil
	}
	if r.playerUnsub != nil {
		r.playerUnsub()
		r.playerUnsub = nil
	}
	if r.player != nil {
		if m.remoteName == r.entry.Name {
			m.remote.SetPlayer("", nil)
			m.remoteName = ""
		}
		_ = r.player.Close()
		r.player = nil
	}
}

// post queues msg for the event loop. A full queue drops it; the next
// tick redraws the board anyway.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *Model) selected() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

// setRows replaces the board, keeping the cursor on the same name.
func (m *Model) setRows(entries []resource.Entry) {
	var current string
	if r := m.selected(); r != nil {
		current = r.entry.Name
	}
	old := make(map[string]*row, len(m.rows))
	for _, r := range m.rows {
		old[r.entry.Name] = r
	}

	rows := make([]*row, 0, len(entries))
	m.cursor = 0
	for i, e := range entries {
		r, ok := old[e.Name]
		if ok {
			delete(old, e.Name)
			r.entry = e
		} else {
			r = m.newRow(e)
		}
		if e.Name == current {
			m.cursor = i
		}
		rows = append(rows, r)
	}
	for _, r := range old {
		m.releaseRow(r)
	}
	m.rows = rows
}

func (m *Model) newRow(e resource.Entry) *row {
	r := &row{entry: e, flag: observe.NewValue(false)}
	name := e.Name
	r.unsub = r.flag.Subscribe(func(on bool) { m.post(flagChangedMsg{name: name, on: on}) })
	return r
}

func (m *Model) bindOptions(r *row) sfx.BindOptions {
	return sfx.BindOptions{
		Name:   r.entry.Name,
		Bundle: m.bundle,
		Volume: m.volume,
		Repeat: r.repeat,
		Mode:   r.mode,
	}
}
