package soundboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/soundfx/internal/sfx"
	"github.com/llehouerou/soundfx/internal/ui/styles"
)

const nameWidth = 28

// View implements tea.Model.
func (m *Model) View() string {
	s := styles.T().S()
	var b strings.Builder

	b.WriteString(styles.T().Title("soundfx"))
	if label := m.bundleLabel(); label != "" {
		b.WriteString(" " + s.Muted.Render(label))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(s.Muted.Render("Loading sounds..."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(s.Muted.Render("No sounds found"))
		b.WriteString("\n")
	default:
		playing := m.activeCounts()
		for i, r := range m.rows {
			b.WriteString(m.renderRow(r, i == m.cursor, playing[r.entry.Name]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) activeCounts() map[string]int {
	counts := make(map[string]int, len(m.active))
	for _, a := range m.active {
		counts[a.Name]++
	}
	return counts
}

func (m *Model) renderRow(r *row, selected bool, active int) string {
	s := styles.T().S()

	name := runewidth.FillRight(runewidth.Truncate(r.entry.Name, nameWidth, "~"), nameWidth)
	line := fmt.Sprintf("%s %8s", name, humanize.Bytes(uint64(max(r.entry.Size, 0))))

	var tags []string
	if active > 0 {
		tags = append(tags, s.Active.Render(fmt.Sprintf("playing x%d", active)))
	}
	if r.binding != nil || r.flag.Get() {
		tags = append(tags, s.Bound.Render(m.boundTag(r)))
	}
	if r.player != nil && r.player.IsPlaying() {
		tags = append(tags, s.Player.Render("player "+formatDuration(r.player.Position())))
	}
	tags = append(tags, s.Subtle.Render(fmt.Sprintf("%s repeat %s", r.mode, r.repeat)))

	line += "  " + strings.Join(tags, " ")
	if selected {
		line = s.Cursor.Render("> " + line)
	} else {
		line = "  " + line
	}
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "")
	}
	return line
}

func (m *Model) boundTag(r *row) string {
	state := sfx.Idle
	if r.binding != nil {
		state = r.binding.State()
	}
	flag := "off"
	if r.flag.Get() {
		flag = "on"
	}
	return fmt.Sprintf("bound %s (%s)", flag, state)
}

func (m *Model) renderStatus() string {
	s := styles.T().S()
	parts := []string{
		s.Base.Render(fmt.Sprintf("vol %d%%", m.volumePercent())),
		s.Muted.Render(fmt.Sprintf("%s active", humanize.Comma(int64(len(m.active))))),
	}
	if m.err != "" {
		parts = append(parts, s.Error.Render(m.err))
	} else if m.status != "" {
		parts = append(parts, s.Success.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
