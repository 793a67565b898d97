package soundboard

import (
	"time"

	"github.com/llehouerou/soundfx/internal/resource"
)

// SoundsLoadedMsg carries the result of listing the bundle.
type SoundsLoadedMsg struct {
	Entries []resource.Entry
	Err     error
}

// ImportDoneMsg reports the result of a pack import.
type ImportDoneMsg struct {
	Count int
	Err   error
}

// TickMsg refreshes the active sound snapshot.
type TickMsg time.Time

type flagChangedMsg struct {
	name string
	on   bool
}

type playedMsg struct {
	name string
}
