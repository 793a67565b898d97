package sfx

import (
	"sync"
	"time"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/errmsg"
	"github.com/llehouerou/soundfx/internal/observe"
	"github.com/llehouerou/soundfx/internal/resource"
)

// PlayerOptions configures a Player. A zero Volume is silent.
type PlayerOptions struct {
	Volume float64
	Repeat RepeatCount
	Mode   PlayMode
}

// Player owns one prepared sound for the lifetime of a UI element. Its
// handle is never part of the registry's active set.
type Player struct {
	playing *observe.Value[bool]

	mu       sync.Mutex
	handle   audio.Handle
	mode     PlayMode
	finished <-chan audio.Result
	closed   bool
}

// NewPlayer prepares name from bundle for a Player. Load failures are
// logged and returned.
func (r *Registry) NewPlayer(name string, bundle resource.Bundle, opts PlayerOptions) (*Player, error) {
	h, _, err := r.load(errmsg.OpSoundPrepare, name, bundle)
	if err != nil {
		return nil, err
	}
	h.SetVolume(opts.Volume, 0)
	h.SetLoops(opts.Repeat.raw())
	return &Player{
		playing: observe.NewValue(false),
		handle:  h,
		mode:    opts.Mode,
	}, nil
}

// Play marks the player playing and starts the sound, from the start in
// Reset mode.
// A closed player ignores Play and leaves its flag alone.
func (p *Player) Play() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.playing.Set(true)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.playing.Set(false)
		return
	}
	if p.mode == Reset {
		p.handle.Seek(0)
	}
	finished := p.handle.Play()
	fresh := finished != p.finished
	p.finished = finished
	p.mu.Unlock()

	if fresh {
		go p.watch(finished)
	}
}

func (p *Player) watch(finished <-chan audio.Result) {
	if res := <-finished; !res.Finished {
		return
	}
	p.mu.Lock()
	current := p.finished == finished
	if current {
		p.finished = nil
	}
	p.mu.Unlock()

	if current {
		p.playing.Set(false)
	}
}

// Stop marks the player stopped and stops the sound.
func (p *Player) Stop() {
	p.playing.Set(false)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = nil
	if !p.closed {
		p.handle.Stop()
	}
}

// Playing returns the observable "is playing" flag.
func (p *Player) Playing() *observe.Value[bool] { return p.playing }

func (p *Player) IsPlaying() bool { return p.playing.Get() }

func (p *Player) SetVolume(level float64, fade time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle.SetVolume(level, fade)
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle.Volume()
}

func (p *Player) SetRepeat(repeat RepeatCount) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle.SetLoops(repeat.raw())
}

func (p *Player) Repeat() RepeatCount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return repeatFromRaw(p.handle.Loops())
}

func (p *Player) SetMode(mode PlayMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

func (p *Player) Mode() PlayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Position returns the playback position of the sound.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle.Position()
}

// Close releases the sound. The player cannot be played again.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.finished = nil
	err := p.handle.Close()
	p.mu.Unlock()

	p.playing.Set(false)
	return err
}
