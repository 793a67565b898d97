package audio

import (
	"time"

	"github.com/gopxl/beep/v2"
)

var _ Handle = (*voice)(nil)

// voice is a Handle playing a decoded buffer through an Output. It is also
// the beep.Streamer handed to the output mixer; the output calls Stream
// with its lock held, so all playback state is guarded by that lock.
type voice struct {
	out  Output
	name string
	buf  *beep.Buffer
	rate beep.SampleRate

	src       beep.StreamSeeker
	loops     int
	remaining int
	gain      gainRamp
	playing   bool
	attached  bool // currently streamed by the output
	closed    bool
	result    chan Result
}

func newVoice(out Output, name string, buf *beep.Buffer) *voice {
	return &voice{
		out:  out,
		name: name,
		buf:  buf,
		rate: buf.Format().SampleRate,
		src:  buf.Streamer(0, buf.Len()),
		gain: newGainRamp(1),
	}
}

func (v *voice) Name() string { return v.name }

// Stream implements beep.Streamer. The mixer drops a streamer after any
// short read, so every short read also detaches the voice and the next
// Play hands it to the output again.
func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if !v.playing {
		v.attached = false
		return 0, false
	}
	for n < len(samples) {
		m, ok := v.src.Stream(samples[n:])
		v.gain.apply(samples[n : n+m])
		n += m
		if ok && m > 0 {
			continue
		}
		if !v.nextLoop() {
			v.finish()
			v.attached = false
			return n, false
		}
	}
	return n, true
}

// Err implements beep.Streamer.
func (v *voice) Err() error { return nil }

// nextLoop rewinds for another loop if any remain.
func (v *voice) nextLoop() bool {
	if v.remaining == 0 || v.buf.Len() == 0 {
		return false
	}
	if v.remaining > 0 {
		v.remaining--
	}
	_ = v.src.Seek(0)
	return true
}

// finish ends the playthrough naturally. Position goes back to the start
// so the next Play replays the sound.
func (v *voice) finish() {
	v.playing = false
	_ = v.src.Seek(0)
	v.remaining = v.loops
	v.resolve(Result{Finished: true})
}

func (v *voice) resolve(res Result) {
	if v.result == nil {
		return
	}
	v.result <- res
	v.result = nil
}

func (v *voice) Play() <-chan Result {
	v.out.Lock()
	if v.closed {
		v.out.Unlock()
		return resolved(Result{})
	}
	if v.playing {
		ch := v.result
		v.out.Unlock()
		return ch
	}
	v.result = make(chan Result, 1)
	if v.src.Position() == 0 {
		v.remaining = v.loops
	}
	v.playing = true
	ch := v.result
	attach := !v.attached
	v.attached = true
	v.out.Unlock()

	if attach {
		v.out.Play(v)
	}
	return ch
}

func (v *voice) Stop() {
	v.out.Lock()
	defer v.out.Unlock()
	v.stopLocked()
}

func (v *voice) stopLocked() {
	if !v.playing {
		return
	}
	v.playing = false
	v.resolve(Result{Finished: false})
}

func (v *voice) IsPlaying() bool {
	v.out.Lock()
	defer v.out.Unlock()
	return v.playing
}

func (v *voice) SetVolume(level float64, fade time.Duration) {
	v.out.Lock()
	defer v.out.Unlock()
	v.gain.set(level, v.rate.N(fade))
}

func (v *voice) Volume() float64 {
	v.out.Lock()
	defer v.out.Unlock()
	return v.gain.target
}

func (v *voice) SetLoops(n int) {
	if n < 0 {
		n = LoopForever
	}
	v.out.Lock()
	defer v.out.Unlock()
	v.loops = n
	v.remaining = n
}

func (v *voice) Loops() int {
	v.out.Lock()
	defer v.out.Unlock()
	return v.loops
}

func (v *voice) Seek(pos time.Duration) {
	v.out.Lock()
	defer v.out.Unlock()
	p := min(max(v.rate.N(pos), 0), v.buf.Len())
	_ = v.src.Seek(p)
}

func (v *voice) Position() time.Duration {
	v.out.Lock()
	defer v.out.Unlock()
	return v.rate.D(v.src.Position())
}

func (v *voice) Duration() time.Duration {
	return v.rate.D(v.buf.Len())
}

func (v *voice) Close() error {
	v.out.Lock()
	defer v.out.Unlock()
	v.stopLocked()
	v.closed = true
	return nil
}
