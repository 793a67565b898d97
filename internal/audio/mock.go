package audio

import (
	"io"
	"sync"
	"time"
)

var (
	_ Engine = (*Mock)(nil)
	_ Handle = (*MockHandle)(nil)
)

// Mock is a test double for Engine. Its handles never play audio; tests
// drive them with Finish and Advance.
type Mock struct {
	mu          sync.Mutex
	handles     []*MockHandle
	decodeCalls []string
	decodeErr   error
	duration    time.Duration
}

// NewMock creates a mock engine whose sounds last one second.
func NewMock() *Mock {
	return &Mock{duration: time.Second}
}

// Decode implements Engine. The reader is drained so resource errors
// surface the same way they do with a real engine.
func (m *Mock) Decode(name string, r io.Reader) (Handle, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodeCalls = append(m.decodeCalls, name)
	if m.decodeErr != nil {
		return nil, m.decodeErr
	}
	h := &MockHandle{name: name, volume: 1, duration: m.duration}
	m.handles = append(m.handles, h)
	return h, nil
}

// SetDecodeError makes every following Decode fail with err (nil clears).
func (m *Mock) SetDecodeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodeErr = err
}

// SetDuration sets the duration of handles decoded from now on.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// Handles returns every handle decoded so far, oldest first.
func (m *Mock) Handles() []*MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockHandle, len(m.handles))
	copy(out, m.handles)
	return out
}

// DecodeCalls returns the names passed to Decode.
func (m *Mock) DecodeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.decodeCalls))
	copy(out, m.decodeCalls)
	return out
}

// MockHandle is a Handle under manual control.
type MockHandle struct {
	mu        sync.Mutex
	name      string
	volume    float64
	fade      time.Duration
	loops     int
	remaining int
	position  time.Duration
	duration  time.Duration
	playing   bool
	closed    bool
	plays     int
	result    chan Result
}

func (h *MockHandle) Name() string { return h.name }

func (h *MockHandle) Play() <-chan Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return resolved(Result{})
	}
	if h.playing {
		return h.result
	}
	if h.position == 0 {
		h.remaining = h.loops
	}
	h.playing = true
	h.plays++
	h.result = make(chan Result, 1)
	return h.result
}

func (h *MockHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

func (h *MockHandle) stopLocked() {
	if !h.playing {
		return
	}
	h.playing = false
	h.resolveLocked(Result{Finished: false})
}

func (h *MockHandle) resolveLocked(res Result) {
	if h.result == nil {
		return
	}
	h.result <- res
	h.result = nil
}

// Finish ends the current playthrough naturally, ignoring remaining loops.
func (h *MockHandle) Finish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.playing {
		return
	}
	h.finishLocked()
}

func (h *MockHandle) finishLocked() {
	h.playing = false
	h.position = 0
	h.remaining = h.loops
	h.resolveLocked(Result{Finished: true})
}

// Advance moves a playing handle forward by d, wrapping through loops the
// way the real engine does. It reports whether the playthrough finished.
func (h *MockHandle) Advance(d time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.playing || h.duration <= 0 {
		return false
	}
	h.position += d
	for h.position >= h.duration {
		if h.remaining == 0 {
			h.finishLocked()
			return true
		}
		if h.remaining > 0 {
			h.remaining--
		}
		h.position -= h.duration
	}
	return false
}

func (h *MockHandle) IsPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *MockHandle) SetVolume(level float64, fade time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = clampLevel(level)
	h.fade = fade
}

func (h *MockHandle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

// Fade returns the fade duration of the last SetVolume.
func (h *MockHandle) Fade() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fade
}

func (h *MockHandle) SetLoops(n int) {
	if n < 0 {
		n = LoopForever
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loops = n
	h.remaining = n
}

func (h *MockHandle) Loops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loops
}

func (h *MockHandle) Seek(pos time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = min(max(pos, 0), h.duration)
}

func (h *MockHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *MockHandle) Duration() time.Duration { return h.duration }

// Plays returns how many times playback was started.
func (h *MockHandle) Plays() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays
}

// Closed reports whether Close was called.
func (h *MockHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *MockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
	h.closed = true
	return nil
}
