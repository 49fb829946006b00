// Package tui provides the Bubble Tea viewer for wavesim.
// It handles the terminal UI loop, input mapping, and drawing the surface.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent once per rendered frame. It carries the wall-clock
// instant the frame fired.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends a frame message after interval.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
