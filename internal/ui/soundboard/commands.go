package soundboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/soundfx/internal/resource"
)

const (
	tickInterval  = 250 * time.Millisecond
	importTimeout = 5 * time.Minute
)

// tickCmd sends TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEventCmd blocks until the next event posted from outside the
// event loop.
func waitForEventCmd(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// listSoundsCmd enumerates the bundle. Bundles that cannot list yield an
// empty board.
func listSoundsCmd(b resource.Bundle) tea.Cmd {
	return func() tea.Msg {
		lister, ok := b.(resource.Lister)
		if !ok {
			return SoundsLoadedMsg{}
		}
		entries, err := lister.List()
		return SoundsLoadedMsg{Entries: entries, Err: err}
	}
}

func importCmd(imp ImportFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()
		n, err := imp(ctx)
		return ImportDoneMsg{Count: n, Err: err}
	}
}
