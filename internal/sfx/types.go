package sfx

import (
	"math"
	"strconv"

	"github.com/llehouerou/soundfx/internal/audio"
)

// RepeatCount is how many extra times a sound plays after the first
// playthrough: 0 plays once, n plays n+1 times. Continuous loops until
// stopped.
type RepeatCount int

// Continuous repeats a sound until it is stopped.
const Continuous RepeatCount = math.MaxInt

// raw converts the count to the engine's loop count. Negative counts are
// treated as 0.
func (r RepeatCount) raw() int {
	switch {
	case r == Continuous:
		return audio.LoopForever
	case r < 0:
		return 0
	default:
		return int(r)
	}
}

func (r RepeatCount) String() string {
	if r == Continuous {
		return "continuous"
	}
	return strconv.Itoa(max(int(r), 0))
}

// repeatFromRaw is the inverse of raw.
func repeatFromRaw(n int) RepeatCount {
	if n < 0 {
		return Continuous
	}
	return RepeatCount(n)
}

// PlayMode decides where a restarted sound resumes.
type PlayMode int

const (
	// Reset rewinds to the start on every play.
	Reset PlayMode = iota
	// Continue resumes where the sound was stopped.
	Continue
)

func (m PlayMode) String() string {
	switch m {
	case Reset:
		return "reset"
	case Continue:
		return "continue"
	default:
		return "unknown"
	}
}
