//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/soundfx/internal/sfx"
)

const busName = "soundfx"

// Adapter serves the current player on the session bus.
type Adapter struct {
	server *server.Server

	mu     sync.Mutex
	name   string
	player Player
}

// New starts serving MPRIS. Without a session bus it returns Discard.
func New() (Remote, error) {
	if _, err := dbus.SessionBus(); err != nil {
		return Discard, nil //nolint:nilerr // no session bus means no media controls
	}
	a := &Adapter{}
	a.server = server.NewServer(busName, rootAdapter{}, &playerAdapter{a: a})

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// SetPlayer replaces the published player.
func (a *Adapter) SetPlayer(name string, p Player) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p == nil {
		name = ""
	}
	a.name = name
	a.player = p
}

func (a *Adapter) current() (string, Player) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name, a.player
}

// Close stops serving and releases the bus name.
func (a *Adapter) Close() error {
	a.SetPlayer("", nil)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (rootAdapter) Raise() error                { return nil }
func (rootAdapter) Quit() error                 { return nil }
func (rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (rootAdapter) Identity() (string, error)   { return "soundfx", nil }

//nolint:revive // Method name required by interface.
func (rootAdapter) SupportedUriSchemes() ([]string, error) { return []string{}, nil }

func (rootAdapter) SupportedMimeTypes() ([]string, error) { return []string{}, nil }

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter over the
// adapter's current player. With no player every control is a no-op.
type playerAdapter struct {
	a *Adapter
}

func (p *playerAdapter) Next() error     { return nil }
func (p *playerAdapter) Previous() error { return nil }

// Pause stops the sound. A Resume mode player picks up where it stopped.
func (p *playerAdapter) Pause() error {
	if _, pl := p.a.current(); pl != nil {
		pl.Stop()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	_, pl := p.a.current()
	if pl == nil {
		return nil
	}
	if pl.IsPlaying() {
		pl.Stop()
	} else {
		pl.Play()
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	if _, pl := p.a.current(); pl != nil {
		pl.Stop()
	}
	return nil
}

func (p *playerAdapter) Play() error {
	if _, pl := p.a.current(); pl != nil && !pl.IsPlaying() {
		pl.Play()
	}
	return nil
}

func (p *playerAdapter) Seek(types.Microseconds) error                { return nil }
func (p *playerAdapter) SetPosition(string, types.Microseconds) error { return nil }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	if _, pl := p.a.current(); pl != nil && pl.IsPlaying() {
		return types.PlaybackStatusPlaying, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetRate(float64) error  { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	name, pl := p.a.current()
	if pl == nil {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(name)),
		Title:   name,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if _, pl := p.a.current(); pl != nil {
		return pl.Volume(), nil
	}
	return 0, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	if _, pl := p.a.current(); pl != nil {
		pl.SetVolume(min(max(level, 0), 1), 0)
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	if _, pl := p.a.current(); pl != nil {
		return pl.Position().Microseconds(), nil
	}
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) CanGoNext() (bool, error)      { return false, nil }
func (p *playerAdapter) CanGoPrevious() (bool, error)  { return false, nil }
func (p *playerAdapter) CanSeek() (bool, error)        { return false, nil }
func (p *playerAdapter) CanControl() (bool, error)     { return true, nil }
func (p *playerAdapter) CanPause() (bool, error)       { return p.hasPlayer(), nil }
func (p *playerAdapter) CanPlay() (bool, error)        { return p.hasPlayer(), nil }

func (p *playerAdapter) hasPlayer() bool {
	_, pl := p.a.current()
	return pl != nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Continuous repeat is reported as track looping.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if _, pl := p.a.current(); pl != nil && pl.Repeat() == sfx.Continuous {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	_, pl := p.a.current()
	if pl == nil {
		return nil
	}
	switch status {
	case types.LoopStatusTrack, types.LoopStatusPlaylist:
		pl.SetRepeat(sfx.Continuous)
	case types.LoopStatusNone:
		pl.SetRepeat(0)
	}
	return nil
}

func formatTrackID(name string) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
