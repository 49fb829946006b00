package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wavesim/internal/core"
)

// KeyMap defines the key bindings of the viewer. Each binding maps to one
// core.Action, which keeps the session free of terminal details.
type KeyMap struct {
	Spawn         key.Binding
	RemoveOldest  key.Binding
	AirDragUp     key.Binding
	AirDragDown   key.Binding
	FrictionUp    key.Binding
	FrictionDown  key.Binding
	WaveSpeedUp   key.Binding
	WaveSpeedDown key.Binding
	TimeScaleUp   key.Binding
	TimeScaleDown key.Binding
	Pause         key.Binding
	Reset         key.Binding
	Screenshot    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spawn, k.RemoveOldest, k.Pause, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Spawn, k.RemoveOldest, k.Pause, k.Reset},
		{k.AirDragUp, k.AirDragDown, k.FrictionUp, k.FrictionDown},
		{k.WaveSpeedUp, k.WaveSpeedDown, k.TimeScaleUp, k.TimeScaleDown},
		{k.Screenshot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Spawn: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fire ball"),
		),
		RemoveOldest: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove oldest"),
		),
		AirDragUp: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a/A", "air drag"),
		),
		AirDragDown: key.NewBinding(
			key.WithKeys("A"),
		),
		FrictionUp: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f/F", "friction"),
		),
		FrictionDown: key.NewBinding(
			key.WithKeys("F"),
		),
		WaveSpeedUp: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w/W", "wave speed"),
		),
		WaveSpeedDown: key.NewBinding(
			key.WithKeys("W"),
		),
		TimeScaleUp: key.NewBinding(
			key.WithKeys("t", "+", "="),
			key.WithHelp("t/T", "time scale"),
		),
		TimeScaleDown: key.NewBinding(
			key.WithKeys("T", "-"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a session action.
// Returns ActionNone for keys that are not simulation controls.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Spawn):
		return core.ActionSpawn
	case key.Matches(msg, k.RemoveOldest):
		return core.ActionRemoveOldest
	case key.Matches(msg, k.AirDragUp):
		return core.ActionAirDragUp
	case key.Matches(msg, k.AirDragDown):
		return core.ActionAirDragDown
	case key.Matches(msg, k.FrictionUp):
		return core.ActionFrictionUp
	case key.Matches(msg, k.FrictionDown):
		return core.ActionFrictionDown
	case key.Matches(msg, k.WaveSpeedUp):
		return core.ActionWaveSpeedUp
	case key.Matches(msg, k.WaveSpeedDown):
		return core.ActionWaveSpeedDown
	case key.Matches(msg, k.TimeScaleUp):
		return core.ActionTimeScaleUp
	case key.Matches(msg, k.TimeScaleDown):
		return core.ActionTimeScaleDown
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Reset):
		return core.ActionReset
	}
	return core.ActionNone
}

// MapKeyToFrame records the action for msg in frame.
// Returns true if the key was a quit request.
func (k KeyMap) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action := k.Action(msg)
	frame.Set(action)
	return action == core.ActionQuit
}
