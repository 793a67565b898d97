// Package mpris exposes the soundboard's current bound player to desktop
// media controls over the MPRIS D-Bus interface.
package mpris

import (
	"time"

	"github.com/llehouerou/soundfx/internal/sfx"
)

// Player is the part of a bound player media controls drive.
type Player interface {
	Play()
	Stop()
	IsPlaying() bool
	Volume() float64
	SetVolume(level float64, fade time.Duration)
	Repeat() sfx.RepeatCount
	SetRepeat(repeat sfx.RepeatCount)
	Position() time.Duration
}

var _ Player = (*sfx.Player)(nil)

// Remote publishes one player at a time. A nil player clears it.
type Remote interface {
	SetPlayer(name string, p Player)
	Close() error
}

// Discard is a Remote that publishes nothing.
var Discard Remote = discard{}

type discard struct{}

func (discard) SetPlayer(string, Player) {}
func (discard) Close() error             { return nil }
