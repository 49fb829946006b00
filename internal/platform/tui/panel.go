package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/session"
)

// Panel layout constants
const (
	panelWidth       = 36 // Width of the settings panel, border included
	minWidthForPanel = 70 // Minimum terminal width to show the panel
	barWidth         = 14 // Width of a knob bar
	maxTableRows     = 8  // Ball rows shown at once
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(panelWidth-2).
			Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
)

// Panel is the settings side panel: knobs, run statistics and a table of
// live balls.
type Panel struct {
	table table.Model
}

// NewPanel creates a panel whose ball table shows up to rows balls.
func NewPanel(rows int) Panel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "X", Width: 6},
		{Title: "Y", Width: 6},
		{Title: "Z", Width: 6},
		{Title: "|v|", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(max(rows, 1)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return Panel{table: t}
}

// SetBalls replaces the table rows, newest ball last.
func (p *Panel) SetBalls(balls []physics.Snapshot) {
	rows := make([]table.Row, len(balls))
	for i, b := range balls {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", b.Position.X),
			fmt.Sprintf("%.2f", b.Position.Y),
			fmt.Sprintf("%.2f", b.Position.Z),
			fmt.Sprintf("%.1f", b.Velocity.Len()),
		}
	}
	p.table.SetRows(rows)
	p.table.GotoBottom()
}

// View renders the panel for st.
func (p Panel) View(st session.Status) string {
	var b strings.Builder

	if st.Paused {
		b.WriteString(pausedStyle.Render("PAUSED"))
		b.WriteString("\n\n")
	}

	b.WriteString(knobLine("air drag", st.AirDrag, st.Sliders.AirDrag))
	b.WriteString(knobLine("friction", st.FrictionDrag, st.Sliders.FrictionDrag))
	b.WriteString(knobLine("wave spd", st.WaveSpeed, st.Sliders.WaveSpeed))
	b.WriteString(knobLine("time x", st.TimeScale, st.Sliders.TimeScale/2))
	b.WriteString("\n")

	r := st.Runner
	b.WriteString(statLine("sim time", fmt.Sprintf("%.2fs", r.SimulatedTime.Seconds())))
	b.WriteString(statLine("ticks", fmt.Sprintf("%d (+%d/frame)", r.Ticks, r.FrameTicks)))
	b.WriteString(statLine("compute", fmt.Sprintf("%.2fms", float64(r.FrameCompute.Microseconds())/1000)))
	if r.Deferred > 0 || r.Dropped > 0 {
		b.WriteString(statLine("behind", fmt.Sprintf("%d deferred, %d dropped", r.Deferred, r.Dropped)))
		b.WriteString(statLine("lag", fmt.Sprintf("%.1fms", float64(st.Lag.Microseconds())/1000)))
	}
	b.WriteString(statLine("balls", fmt.Sprintf("%d live, %d fired", st.Balls, st.Spawned)))
	b.WriteString(statLine("contacts", fmt.Sprintf("%d", st.Contacts)))
	if st.Removed > 0 {
		b.WriteString(statLine("removed", fmt.Sprintf("%d", st.Removed)))
	}
	b.WriteString("\n")

	if st.Balls == 0 {
		b.WriteString(labelStyle.Italic(true).Render("No balls. Press space to fire one."))
	} else {
		b.WriteString(p.table.View())
	}

	return panelStyle.Render(b.String())
}

func knobLine(label string, value, slider float64) string {
	return fmt.Sprintf("%s %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-8s", label)),
		bar(slider, barWidth),
		valueStyle.Render(fmt.Sprintf("%6.2f", value)))
}

func statLine(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-8s", label)), value)
}

// bar draws a horizontal gauge for v in [0, 1].
func bar(v float64, width int) string {
	if math.IsNaN(v) {
		v = 0
	}
	filled := int(math.Round(math.Max(0, math.Min(1, v)) * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
