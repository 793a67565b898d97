package sfx

import (
	"sync"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/errmsg"
	"github.com/llehouerou/soundfx/internal/observe"
	"github.com/llehouerou/soundfx/internal/resource"
)

// BindingState is the playback state of a Binding.
type BindingState int

const (
	Idle BindingState = iota
	Playing
)

func (s BindingState) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// BindOptions describes the sound a Binding plays. Bundle values are
// compared with ==, so they must be comparable (the resource bundles are
// pointers).
type BindOptions struct {
	Name   string
	Bundle resource.Bundle
	Volume float64
	Repeat RepeatCount
	Mode   PlayMode
}

// Binding plays a sound while a boolean flag is true. The flag going true
// starts the sound (from the start in Reset mode), going false stops it,
// and a natural end of the sound sets the flag back to false.
//
// The sound is loaded on Attach and again only when its name or bundle
// changes, so toggling the flag never reloads it.
type Binding struct {
	reg  *Registry
	flag *observe.Value[bool]

	mu          sync.Mutex
	opts        BindOptions
	handle      audio.Handle
	state       BindingState
	finished    <-chan audio.Result
	attached    bool
	unsubscribe func()
}

// Bind creates a binding of flag to a sound. Nothing is loaded until
// Attach.
func (r *Registry) Bind(flag *observe.Value[bool], opts BindOptions) *Binding {
	return &Binding{reg: r, flag: flag, opts: opts}
}

// Attach loads the sound, subscribes to the flag and applies its current
// value. A load failure is logged and returned; the binding then stays
// Idle until Update loads a sound successfully. Attaching twice does
// nothing.
func (b *Binding) Attach() error {
	b.mu.Lock()
	if b.attached {
		b.mu.Unlock()
		return nil
	}
	b.attached = true
	err := b.loadLocked()
	b.mu.Unlock()

	unsubscribe := b.flag.Subscribe(b.apply)
	b.mu.Lock()
	b.unsubscribe = unsubscribe
	b.mu.Unlock()

	b.apply(b.flag.Get())
	return err
}

func (b *Binding) apply(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached || b.handle == nil {
		return
	}
	switch {
	case on && b.state == Idle:
		b.startLocked()
	case !on && b.state == Playing:
		b.finished = nil
		b.state = Idle
		b.handle.Stop()
	}
}

func (b *Binding) startLocked() {
	if b.opts.Mode == Reset {
		b.handle.Seek(0)
	}
	finished := b.handle.Play()
	b.finished = finished
	b.state = Playing
	go b.watch(finished)
}

// watch turns the flag off when the playthrough ends naturally.
func (b *Binding) watch(finished <-chan audio.Result) {
	if res := <-finished; !res.Finished {
		return
	}
	b.mu.Lock()
	current := b.finished == finished
	if current {
		b.finished = nil
		b.state = Idle
	}
	b.mu.Unlock()

	if current {
		b.flag.Set(false)
	}
}

// Update changes the bound sound. A new name or bundle reloads it and
// restarts it if the flag is on; volume and repeat are applied to the
// current sound; the mode takes effect on the next start.
func (b *Binding) Update(opts BindOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	old := b.opts
	b.opts = opts
	if !b.attached {
		return nil
	}

	if opts.Name != old.Name || opts.Bundle != old.Bundle || b.handle == nil {
		b.releaseLocked()
		if err := b.loadLocked(); err != nil {
			return err
		}
		if b.flag.Get() {
			b.startLocked()
		}
		return nil
	}

	if opts.Volume != old.Volume {
		b.handle.SetVolume(opts.Volume, 0)
	}
	if opts.Repeat != old.Repeat {
		b.handle.SetLoops(opts.Repeat.raw())
	}
	return nil
}

// Detach unsubscribes from the flag and releases the sound.
func (b *Binding) Detach() {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return
	}
	b.attached = false
	b.releaseLocked()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// State returns Idle or Playing.
func (b *Binding) State() BindingState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Options returns the current options.
func (b *Binding) Options() BindOptions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opts
}

// Loaded reports whether a sound is loaded.
func (b *Binding) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle != nil
}

func (b *Binding) loadLocked() error {
	h, _, err := b.reg.load(errmsg.OpSoundBind, b.opts.Name, b.opts.Bundle)
	if err != nil {
		return err
	}
	h.SetVolume(b.opts.Volume, 0)
	h.SetLoops(b.opts.Repeat.raw())
	b.handle = h
	return nil
}

func (b *Binding) releaseLocked() {
	b.finished = nil
	b.state = Idle
	if b.handle != nil {
		_ = b.handle.Close()
		b.handle = nil
	}
}
