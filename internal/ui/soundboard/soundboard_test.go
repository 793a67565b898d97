//nolint:goconst // test cases intentionally repeat strings for readability
package soundboard

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/mpris"
	"github.com/llehouerou/soundfx/internal/notify"
	"github.com/llehouerou/soundfx/internal/resource"
	"github.com/llehouerou/soundfx/internal/sfx"
	"github.com/llehouerou/soundfx/internal/ui/testutil"
)

type board struct {
	h      *testutil.Harness
	m      *Model
	reg    *sfx.Registry
	engine *audio.Mock
	notes  *recordingNotifier
	remote *recordingRemote
}

type recordingNotifier struct {
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) (uint32, error) {
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), nil
}

func (r *recordingNotifier) Close(uint32) error { return nil }

type recordingRemote struct {
	name   string
	player mpris.Player
	closed bool
}

func (r *recordingRemote) SetPlayer(name string, p mpris.Player) {
	r.name, r.player = name, p
}

func (r *recordingRemote) Close() error {
	r.closed = true
	return nil
}

func testBundle() resource.Bundle {
	return resource.FS(fstest.MapFS{
		"chime.wav":    {Data: []byte("chime-data")},
		"click.wav":    {Data: []byte("click")},
		"loop.ogg":     {Data: []byte("loop")},
		"ui/alert.mp3": {Data: []byte("alert")},
	}, "test")
}

// newBoard builds a board over the test bundle with its sounds listed.
func newBoard(t *testing.T, imp ImportFunc) *board {
	t.Helper()
	engine := audio.NewMock()
	reg := sfx.New(engine)
	bundle := testBundle()
	notes := &recordingNotifier{}
	remote := &recordingRemote{}
	m := New(Config{
		Notifier: notes,
		Remote:   remote,
		Registry: reg,
		Bundle:   bundle,
		Volume:   0.5,
		Fade:     100 * time.Millisecond,
		Import:   imp,
	})
	h := testutil.NewHarness(m)
	h.Send(testutil.ExecuteCmd(listSoundsCmd(bundle)))
	t.Cleanup(func() {
		m.Close()
		reg.Close()
	})
	return &board{h: h, m: m, reg: reg, engine: engine, notes: notes, remote: remote}
}

func (b *board) handles(name string) []*audio.MockHandle {
	var out []*audio.MockHandle
	for _, h := range b.engine.Handles() {
		if h.Name() == name {
			out = append(out, h)
		}
	}
	return out
}

// drain feeds every queued event back into the model.
func (b *board) drain() {
	for {
		select {
		case msg := <-b.m.events:
			b.h.Send(msg)
		default:
			return
		}
	}
}

func TestBoard_ListsSounds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)

		view := testutil.StripANSI(b.h.View())
		for _, name := range []string{"chime.wav", "click.wav", "loop.ogg", "ui/alert.mp3"} {
			assert.True(t, testutil.ContainsLine(view, name), "missing %s", name)
		}
		assert.Contains(t, testutil.FindLine(view, "chime.wav"), "> ")
		assert.Contains(t, testutil.FindLine(view, "chime.wav"), "10 B")
		assert.Contains(t, view, "vol 50%")
	})
}

func TestBoard_ListError(t *testing.T) {
	m := New(Config{Registry: nil, Bundle: testBundle()})
	m.Update(SoundsLoadedMsg{Err: errors.New("disk on fire")})

	view := testutil.StripANSI(m.View())
	assert.Contains(t, view, "Failed to list sounds 'test': disk on fire")
	assert.Contains(t, view, "No sounds found")
}

func TestBoard_Navigation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)

		tests := []struct {
			key  string
			want int
		}{
			{"j", 1},
			{"down", 2},
			{"G", 3},
			{"j", 3},
			{"k", 2},
			{"g", 0},
			{"up", 0},
		}
		for _, tt := range tests {
			b.h.SendKey(tt.key)
			assert.Equal(t, tt.want, b.m.cursor, "after %q", tt.key)
		}
	})
}

func TestBoard_FireAndForget(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)

		b.h.SendKey("enter")
		synctest.Wait()

		hs := b.handles("chime.wav")
		require.Len(t, hs, 1)
		assert.True(t, hs[0].IsPlaying())
		assert.InDelta(t, 0.5, hs[0].Volume(), 1e-9)

		b.h.Send(TickMsg(time.Now()))
		assert.Contains(t, testutil.FindLine(testutil.StripANSI(b.h.View()), "chime.wav"), "playing x1")

		hs[0].Finish()
		synctest.Wait()
		b.drain()

		assert.Equal(t, 0, b.reg.Len())
		view := testutil.StripANSI(b.h.View())
		assert.Contains(t, view, "Finished chime.wav")
		assert.NotContains(t, view, "playing x1")
	})
}

func TestBoard_StopAndStopAll(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)

		b.h.SendKey("enter")
		b.h.SendKey("enter")
		b.h.SendKey("j")
		b.h.SendKey("enter")
		synctest.Wait()
		require.Equal(t, 3, b.reg.Len())

		b.h.SendKey("k")
		b.h.SendKey("s")
		assert.Equal(t, 1, b.reg.Len())
		for _, h := range b.handles("chime.wav") {
			assert.True(t, h.Closed())
		}

		b.h.SendKey("S")
		assert.Equal(t, 0, b.reg.Len())
		assert.Contains(t, testutil.StripANSI(b.h.View()), "Stopped all sounds")

		// stopped sounds never report completion
		synctest.Wait()
		b.drain()
		assert.NotContains(t, testutil.StripANSI(b.h.View()), "Finished")
	})
}

func TestBoard_BoundFlag(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		r := b.m.rows[0]

		b.h.SendKey(" ")
		require.NotNil(t, r.binding)
		assert.True(t, r.flag.Get())
		assert.Equal(t, sfx.Playing, r.binding.State())

		hs := b.handles("chime.wav")
		require.Len(t, hs, 1)
		assert.True(t, hs[0].IsPlaying())
		assert.Equal(t, 0, b.reg.Len(), "bound sounds stay out of the registry")
		assert.Contains(t, testutil.FindLine(testutil.StripANSI(b.h.View()), "chime.wav"), "bound on (playing)")

		b.h.SendKey(" ")
		assert.False(t, r.flag.Get())
		assert.Equal(t, sfx.Idle, r.binding.State())
		assert.False(t, hs[0].IsPlaying())

		b.h.SendKey(" ")
		hs[0].Finish()
		synctest.Wait()
		b.drain()

		assert.False(t, r.flag.Get(), "completion turns the flag off")
		assert.Equal(t, sfx.Idle, r.binding.State())
		assert.Contains(t, testutil.FindLine(testutil.StripANSI(b.h.View()), "chime.wav"), "bound off (idle)")
	})
}

func TestBoard_ModeAndRepeat(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		r := b.m.rows[0]
		b.h.SendKey(" ")

		b.h.SendKey("m")
		assert.Equal(t, sfx.Continue, r.mode)
		assert.Equal(t, sfx.Continue, r.binding.Options().Mode)
		b.h.SendKey("m")
		assert.Equal(t, sfx.Reset, r.mode)

		h := b.handles("chime.wav")[0]
		want := []sfx.RepeatCount{1, 3, sfx.Continuous, 0}
		for _, rc := range want {
			b.h.SendKey("l")
			assert.Equal(t, rc, r.repeat)
			assert.Equal(t, rc, r.binding.Options().Repeat)
		}
		b.h.SendKey("l")
		b.h.SendKey("l")
		b.h.SendKey("l")
		assert.Equal(t, audio.LoopForever, h.Loops())
		assert.Contains(t, testutil.StripANSI(b.h.View()), "repeat continuous")
	})
}

func TestBoard_Player(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		r := b.m.rows[0]

		b.h.SendKey("p")
		require.NotNil(t, r.player)
		assert.True(t, r.player.IsPlaying())
		hs := b.handles("chime.wav")
		require.Len(t, hs, 1)
		assert.Equal(t, 0, b.reg.Len())

		b.h.SendKey("p")
		assert.False(t, r.player.IsPlaying())

		b.h.SendKey("p")
		hs[0].Finish()
		synctest.Wait()
		b.drain()
		assert.False(t, r.player.IsPlaying())
		assert.Len(t, b.handles("chime.wav"), 1, "the player keeps its handle")
	})
}

func TestBoard_PlayerPublishedToMediaControls(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		assert.Nil(t, b.remote.player)

		b.h.SendKey("p")
		chime := b.m.rows[0]
		assert.Equal(t, "chime.wav", b.remote.name)
		assert.Same(t, chime.player, b.remote.player)

		// Media controls drive the same player the board shows.
		b.remote.player.Stop()
		assert.False(t, chime.player.IsPlaying())
		b.remote.player.Play()
		assert.True(t, chime.player.IsPlaying())

		b.h.SendKey("j")
		b.h.SendKey("p")
		click := b.m.rows[1]
		assert.Equal(t, "click.wav", b.remote.name)
		assert.Same(t, click.player, b.remote.player)

		// Dropping a row that is not published leaves the remote alone.
		b.h.Send(SoundsLoadedMsg{Entries: []resource.Entry{{Name: "click.wav"}}})
		assert.Equal(t, "click.wav", b.remote.name)

		b.h.Send(SoundsLoadedMsg{Entries: []resource.Entry{{Name: "loop.ogg"}}})
		assert.Empty(t, b.remote.name)
		assert.Nil(t, b.remote.player)
	})
}

func TestBoard_PlayerLoadFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		b.engine.SetDecodeError(errors.New("bad header"))

		b.h.SendKey("p")
		assert.Nil(t, b.m.rows[0].player)
		assert.Contains(t, testutil.StripANSI(b.h.View()), "bad header")
	})
}

func TestBoard_Volume(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)

		b.h.SendKey("enter")
		synctest.Wait()
		b.h.SendKey("j")
		b.h.SendKey("p")

		b.h.SendKey("+")
		synctest.Wait()
		assert.InDelta(t, 0.6, b.m.volume, 1e-9)
		for _, h := range b.engine.Handles() {
			assert.InDelta(t, 0.6, h.Volume(), 1e-9, h.Name())
			assert.Equal(t, 100*time.Millisecond, h.Fade(), h.Name())
		}
		assert.Contains(t, testutil.StripANSI(b.h.View()), "vol 60%")

		for range 10 {
			b.h.SendKey("-")
		}
		synctest.Wait()
		assert.InDelta(t, 0.0, b.m.volume, 1e-9)
	})
}

func TestBoard_Import(t *testing.T) {
	t.Run("success relists", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			b := newBoard(t, func(context.Context) (int, error) { return 4, nil })

			cmd := b.h.SendKey("i")
			require.NotNil(t, cmd)
			msg := testutil.ExecuteCmd(cmd)
			require.Equal(t, ImportDoneMsg{Count: 4}, msg)

			relist := b.h.Send(msg)
			assert.NotNil(t, relist)
			assert.Contains(t, testutil.StripANSI(b.h.View()), "Imported 4 sounds")
			require.Len(t, b.notes.sent, 1)
			assert.Equal(t, "Imported 4 sounds", b.notes.sent[0].Body)
			assert.Equal(t, notify.UrgencyNormal, b.notes.sent[0].Urgency)
		})
	})

	t.Run("failure", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			b := newBoard(t, nil)
			b.h.Send(ImportDoneMsg{Err: errors.New("database is locked")})
			assert.Contains(t, testutil.StripANSI(b.h.View()),
				"Failed to import sounds into pack: database is locked")
			require.Len(t, b.notes.sent, 1)
			assert.Equal(t, notify.UrgencyCritical, b.notes.sent[0].Urgency)
		})
	})

	t.Run("disabled", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			b := newBoard(t, nil)
			assert.Nil(t, b.h.SendKey("i"))
		})
	})
}

func TestBoard_QuitReleasesSounds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		b.h.SendKey(" ")
		b.h.SendKey("j")
		b.h.SendKey("p")

		cmd := b.h.SendKey("q")
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())

		for _, h := range b.engine.Handles() {
			assert.True(t, h.Closed(), h.Name())
		}
		assert.Nil(t, b.m.rows[0].binding)
		assert.Nil(t, b.m.rows[1].player)
	})
}

func TestBoard_RelistKeepsRows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		b.h.SendKey("j")
		b.h.SendKey(" ")
		kept := b.m.rows[1]

		b.h.Send(SoundsLoadedMsg{Entries: []resource.Entry{
			{Name: "alarm.wav"},
			{Name: "chime.wav"},
			{Name: "click.wav"},
		}})

		require.Len(t, b.m.rows, 3)
		assert.Same(t, kept, b.m.rows[2])
		assert.Equal(t, 2, b.m.cursor)
		assert.True(t, kept.flag.Get())
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{75 * time.Second, "1:15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}

func TestBoard_LongNamesAndNarrowWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newBoard(t, nil)
		long := "effects/ambience/very-long-forest-at-night.wav"
		b.h.Send(SoundsLoadedMsg{Entries: []resource.Entry{{Name: long, Size: 2048}}})

		line := testutil.FindLine(b.h.View(), "effects/")
		assert.Contains(t, line, "~")
		assert.NotContains(t, line, "night.wav")
		assert.Contains(t, line, "2.0 kB")

		b.h.Send(tea.WindowSizeMsg{Width: 20, Height: 10})
		line = testutil.FindLine(b.h.View(), "effects/")
		assert.LessOrEqual(t, len([]rune(line)), 20)
	})
}
