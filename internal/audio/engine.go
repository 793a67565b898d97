// Package audio is the playback engine sounds are decoded into.
//
// An Engine turns encoded bytes into a Handle: one fully decoded sound
// with its own volume, loop count, position and play/stop controls.
// Handles report the end of every playthrough through a one-shot
// completion channel returned by Play.
package audio

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrDecode is matched by every decoding failure.
	ErrDecode = errors.New("decode failed")
	// ErrUnsupportedFormat is returned for data no decoder recognizes.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// LoopForever is the raw loop count for endless looping.
const LoopForever = -1

// Engine decodes sounds into playable handles.
type Engine interface {
	// Decode reads r to the end and returns a stopped handle positioned at
	// the start. name is used for format detection and diagnostics.
	Decode(name string, r io.Reader) (Handle, error)
}

// Result resolves a playthrough.
type Result struct {
	// Finished is true when playback reached its natural end (all loops
	// played), false when it was stopped or the handle was closed.
	Finished bool
}

// Handle is one decoded sound instance. Methods are safe for concurrent use.
type Handle interface {
	// Name returns the name the sound was decoded from.
	Name() string

	// Play starts or resumes playback at the current position and returns
	// the completion channel of the current playthrough. The channel
	// receives exactly one Result. Calling Play while playing returns the
	// same channel.
	Play() <-chan Result
	// Stop pauses playback, keeping the position. The current playthrough
	// resolves with Finished=false.
	Stop()
	// IsPlaying reports whether the handle is playing.
	IsPlaying() bool

	// SetVolume sets the volume (0.0 to 1.0), ramping linearly over fade
	// when fade is positive.
	SetVolume(level float64, fade time.Duration)
	// Volume returns the target volume.
	Volume() float64
	// SetLoops sets the raw loop count: negative loops forever, 0 plays
	// once, n plays n+1 times.
	SetLoops(n int)
	// Loops returns the raw loop count.
	Loops() int

	// Seek moves the position, clamped to the sound's duration.
	Seek(pos time.Duration)
	// Position returns the current position within the sound.
	Position() time.Duration
	// Duration returns the length of one playthrough.
	Duration() time.Duration

	// Close stops playback for good. Play after Close resolves immediately
	// with Finished=false.
	Close() error
}

// clampLevel restricts a volume level to [0, 1].
func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// resolved returns a completion channel already holding res.
func resolved(res Result) <-chan Result {
	ch := make(chan Result, 1)
	ch <- res
	return ch
}
