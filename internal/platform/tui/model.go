package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/session"
	"github.com/vovakirdan/wavesim/internal/surface"
)

// Rows taken by the header, equation line and help bar.
const chromeRows = 4

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	equationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for the wave viewer.
type Model struct {
	sess       *session.Session
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	panel      Panel
	view       Viewport
	lo, hi     float64 // Height range used for shading
	inputFrame core.InputFrame
	logger     *log.Logger
	quitting   bool
}

// NewModel creates a viewer for sess. A nil logger discards output.
func NewModel(sess *session.Session, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	lo, hi := surface.HeightRange()
	if surf := sess.Config().Surface; surf.Kind == config.SurfaceFlat {
		lo, hi = surf.Level-1, surf.Level+1
	}

	m := Model{
		sess:       sess,
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		view:       DefaultViewport(),
		lo:         lo,
		hi:         hi,
		inputFrame: core.NewInputFrame(),
		logger:     logger,
	}
	w, h := m.mapSize()
	m.screen = core.NewScreen(w, h)
	m.panel = NewPanel(m.tableRows())
	m.help.Width = cfg.ScreenW
	return m
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.config.FrameInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}

	return m, nil
}

// handleKey queues the action for the next frame. Quit, help and
// screenshots are handled at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.panel = NewPanel(m.tableRows())
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	w, h := m.mapSize()
	m.screen.Resize(w, h)
	m.panel = NewPanel(m.tableRows())
	m.panel.SetBalls(m.sess.Balls())
	return m, nil
}

// handleFrame applies the queued input and runs the simulation up to now.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.sess.Apply(m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	m.inputFrame.Clear()

	m.sess.Frame(now)
	m.panel.SetBalls(m.sess.Balls())

	return m, frameCmd(m.config.FrameInterval())
}

// showPanel reports whether the terminal is wide enough for the side panel.
func (m Model) showPanel() bool {
	return m.config.ScreenW >= minWidthForPanel
}

// mapSize returns the height map size in cells. Cells are about twice as
// tall as they are wide, so the map is kept at most twice as wide as tall.
func (m Model) mapSize() (w, h int) {
	w = m.config.ScreenW
	if m.showPanel() {
		w -= panelWidth + 1
	}
	h = m.config.ScreenH - chromeRows
	if m.help.ShowAll {
		h -= len(m.keys.FullHelp()[0]) - 1
	}
	h = max(h, 1)
	w = core.Clamp(w, 1, 2*h)
	return w, h
}

// tableRows fits the ball table under the knobs and stats.
func (m Model) tableRows() int {
	_, h := m.mapSize()
	return core.Clamp(h-18, 1, maxTableRows)
}

// draw renders the height map and balls into the screen buffer, framed
// with the simulated clock on the top border.
func (m Model) draw(st session.Status) {
	m.screen.Clear()
	area := core.NewRect(0, 0, m.screen.Width(), m.screen.Height())
	if area.W >= 3 && area.H >= 3 {
		m.screen.DrawBox(area, core.ColorGray)
		if st.Paused {
			m.screen.DrawTextColor(2, 0, " PAUSED ", core.ColorYellow)
		} else {
			m.screen.DrawText(2, 0, fmt.Sprintf(" t=%.1fs ", st.Runner.SimulatedTime.Seconds()))
		}
		area = core.NewRect(1, 1, area.W-2, area.H-2)
	}
	hf := m.sess.Surface()
	DrawSurface(m.screen, area, m.view, hf, m.lo, m.hi)
	DrawBalls(m.screen, area, m.view, hf, m.sess.Balls())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.sess.Status()
	m.draw(st)

	var b strings.Builder
	title := fmt.Sprintf("wavesim  %s  seed %d", st.Scenario, st.Seed)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	body := RenderScreen(m.screen)
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.panel.View(st))
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(equationStyle.Render(st.Equation))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// saveScreenshot saves the current height map to a file.
func (m *Model) saveScreenshot() {
	st := m.sess.Status()
	m.draw(st)

	dir := filepath.Join(os.Getenv("HOME"), ".wavesim", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", st.Scenario, timestamp))
	text := m.screen.String() + "\n" + st.Equation + "\n"
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// Run starts the Bubble Tea program for sess.
func Run(sess *session.Session, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(sess, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
