// Package sfx triggers and manages short sound effects.
//
// A Registry owns the set of sounds started with Play and removes them
// when they finish or are stopped. Prepare and Player give callers a
// handle of their own, and Binding drives a handle from an observable
// boolean flag.
package sfx

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/errmsg"
	"github.com/llehouerou/soundfx/internal/resource"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger failures are reported to. The default
// discards them.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDefaultBundle sets the bundle used when a call passes a nil bundle.
func WithDefaultBundle(b resource.Bundle) Option {
	return func(r *Registry) { r.bundle = b }
}

// entry is one sound started with Play. Entries are identified by
// pointer, so two plays of the same name are distinct.
type entry struct {
	name       string
	bundle     string
	handle     audio.Handle
	onComplete func()
}

// ActiveSound describes a playing entry.
type ActiveSound struct {
	Name     string
	Bundle   string
	Volume   float64
	Position time.Duration
	Duration time.Duration
}

// Registry plays fire-and-forget sounds and tracks them until they end.
//
// The active set is only touched by the registry's own goroutine; every
// other goroutine hands it work through ops.
type Registry struct {
	engine audio.Engine
	logger *slog.Logger
	bundle resource.Bundle

	ops       chan func()
	done      chan struct{}
	closeOnce sync.Once

	active []*entry
}

// New creates a registry decoding with engine. Call Close to stop its
// sounds and release its goroutine.
func New(engine audio.Engine, opts ...Option) *Registry {
	r := &Registry{
		engine: engine,
		logger: slog.New(slog.DiscardHandler),
		ops:    make(chan func()),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.run()
	return r
}

func (r *Registry) run() {
	for {
		select {
		case op := <-r.ops:
			op()
		case <-r.done:
			return
		}
	}
}

// do runs fn on the registry goroutine and waits for it. It returns false
// if the registry is closed.
func (r *Registry) do(fn func()) bool {
	ran := make(chan struct{})
	select {
	case r.ops <- func() { fn(); close(ran) }:
	case <-r.done:
		return false
	}
	<-ran
	return true
}

// Play loads name from bundle in the background and plays it once plus
// repeat times at volume. The sound joins the active set once playback
// has started. onComplete, if not nil, runs after a natural end, on a
// goroutine of its own, and never after Stop or StopAll. The sound has
// already left the active set when onComplete runs. Failures are logged
// and drop the request.
func (r *Registry) Play(name string, bundle resource.Bundle, volume float64, repeat RepeatCount, onComplete func()) {
	go r.play(name, bundle, volume, repeat, onComplete)
}

func (r *Registry) play(name string, bundle resource.Bundle, volume float64, repeat RepeatCount, onComplete func()) {
	h, label, err := r.load(errmsg.OpSoundPlay, name, bundle)
	if err != nil {
		return
	}
	h.SetVolume(volume, 0)
	h.SetLoops(repeat.raw())
	finished := h.Play()

	e := &entry{name: name, bundle: label, handle: h, onComplete: onComplete}
	if !r.do(func() { r.active = append(r.active, e) }) {
		_ = h.Close()
		return
	}
	go r.watch(e, finished)
}

// watch waits for the end of e's playthrough. A stopped entry was already
// removed by whoever stopped it.
func (r *Registry) watch(e *entry, finished <-chan audio.Result) {
	if res := <-finished; !res.Finished {
		return
	}
	removed := false
	r.do(func() { removed = r.remove(e) })
	if !removed {
		return
	}
	_ = e.handle.Close()
	if e.onComplete != nil {
		e.onComplete()
	}
}

func (r *Registry) remove(e *entry) bool {
	i := slices.Index(r.active, e)
	if i < 0 {
		return false
	}
	r.active = slices.Delete(r.active, i, i+1)
	return true
}

// Prepare synchronously loads name from bundle and returns a stopped
// handle. The registry keeps no reference to it: the caller plays and
// closes it.
func (r *Registry) Prepare(name string, bundle resource.Bundle) (audio.Handle, error) {
	h, _, err := r.load(errmsg.OpSoundPrepare, name, bundle)
	return h, err
}

// Stop stops every active sound called name. Their completion callbacks
// are discarded. Unknown names are ignored.
func (r *Registry) Stop(name string) {
	r.do(func() {
		r.active = slices.DeleteFunc(r.active, func(e *entry) bool {
			if e.name != name {
				return false
			}
			_ = e.handle.Close()
			return true
		})
	})
}

// StopAll stops and forgets every active sound. Like Stop, it discards
// their completion callbacks.
func (r *Registry) StopAll() {
	r.do(func() {
		for _, e := range r.active {
			_ = e.handle.Close()
		}
		r.active = nil
	})
}

// SetVolume changes the volume of every active sound called name, or of
// all active sounds when name is empty, ramping over fade.
func (r *Registry) SetVolume(name string, volume float64, fade time.Duration) {
	r.do(func() {
		for _, e := range r.active {
			if name == "" || e.name == name {
				e.handle.SetVolume(volume, fade)
			}
		}
	})
}

// Active returns a snapshot of the active set in start order.
func (r *Registry) Active() []ActiveSound {
	var out []ActiveSound
	r.do(func() {
		out = make([]ActiveSound, 0, len(r.active))
		for _, e := range r.active {
			out = append(out, ActiveSound{
				Name:     e.name,
				Bundle:   e.bundle,
				Volume:   e.handle.Volume(),
				Position: e.handle.Position(),
				Duration: e.handle.Duration(),
			})
		}
	})
	return out
}

// Len returns the number of active sounds.
func (r *Registry) Len() int {
	n := 0
	r.do(func() { n = len(r.active) })
	return n
}

// Close stops all active sounds and ends the registry goroutine. Later
// calls on the registry do nothing.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.StopAll()
		close(r.done)
	})
}

// load resolves and decodes a sound, reporting failures to the logger.
func (r *Registry) load(op errmsg.Op, name string, bundle resource.Bundle) (audio.Handle, string, error) {
	if bundle == nil {
		bundle = r.bundle
	}
	label := bundleLabel(bundle)

	rc, err := openSound(bundle, name)
	if err != nil {
		var kind error
		if errors.Is(err, resource.ErrNotFound) {
			kind = ErrResourceNotFound
		}
		return nil, label, r.report(&Error{Op: op, Name: name, Bundle: label, Kind: kind, Err: err})
	}
	defer rc.Close()

	h, err := r.engine.Decode(name, rc)
	if err != nil {
		return nil, label, r.report(&Error{Op: op, Name: name, Bundle: label, Kind: ErrDecodeFailed, Err: err})
	}
	return h, label, nil
}

func (r *Registry) report(err *Error) error {
	r.logger.Error(err.Error(),
		"op", string(err.Op),
		"sound", err.Name,
		"bundle", err.Bundle,
		"error", err.Err,
	)
	return err
}
