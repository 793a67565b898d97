package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

var _ Output = (*MixerOutput)(nil)

// MixerOutput is an Output mixed by hand: nothing reaches a device until
// Pump pulls frames through its beep.Mixer, which drops streamers the way
// the speaker does. Tests use it to drive real handles.
type MixerOutput struct {
	mu    sync.Mutex
	mixer beep.Mixer
}

func (o *MixerOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mixer.Add(s)
}

func (o *MixerOutput) Lock()   { o.mu.Lock() }
func (o *MixerOutput) Unlock() { o.mu.Unlock() }

// Pump mixes n frames and returns them.
func (o *MixerOutput) Pump(n int) [][2]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	mix := make([][2]float64, n)
	o.mixer.Stream(mix)
	return mix
}

// Len returns the number of streamers still in the mixer.
func (o *MixerOutput) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}
