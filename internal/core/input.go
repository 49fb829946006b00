package core

import "slices"

// Action represents a semantic control action, abstracted from physical key
// presses. Front ends translate keys; the session applies actions.
type Action int

const (
	ActionNone          Action = iota
	ActionSpawn                // Space - fire a ball from the launcher
	ActionRemoveOldest         // X - destroy the oldest ball
	ActionAirDragUp            // A
	ActionAirDragDown          // Shift+A
	ActionFrictionUp           // F
	ActionFrictionDown         // Shift+F
	ActionWaveSpeedUp          // W
	ActionWaveSpeedDown        // Shift+W
	ActionTimeScaleUp          // T
	ActionTimeScaleDown        // Shift+T
	ActionPause                // P - toggle pause
	ActionReset                // R - reload the scenario
	ActionQuit                 // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:          "None",
	ActionSpawn:         "Spawn",
	ActionRemoveOldest:  "RemoveOldest",
	ActionAirDragUp:     "AirDragUp",
	ActionAirDragDown:   "AirDragDown",
	ActionFrictionUp:    "FrictionUp",
	ActionFrictionDown:  "FrictionDown",
	ActionWaveSpeedUp:   "WaveSpeedUp",
	ActionWaveSpeedDown: "WaveSpeedDown",
	ActionTimeScaleUp:   "TimeScaleUp",
	ActionTimeScaleDown: "TimeScaleDown",
	ActionPause:         "Pause",
	ActionReset:         "Reset",
	ActionQuit:          "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame collects the actions triggered between two rendered frames.
// Repeated presses are counted, so two taps of spawn fire two balls.
type InputFrame struct {
	Actions map[Action]int
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]int),
	}
}

// Set records one occurrence of an action.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	if f.Actions == nil {
		f.Actions = make(map[Action]int)
	}
	f.Actions[a]++
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a] > 0
}

// Count returns how many times an action was triggered this frame.
func (f InputFrame) Count(a Action) int {
	return f.Actions[a]
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Sorted returns the triggered actions in enum order, each repeated by its
// count, so applying them is deterministic.
func (f InputFrame) Sorted() []Action {
	keys := make([]Action, 0, len(f.Actions))
	for a := range f.Actions {
		keys = append(keys, a)
	}
	slices.Sort(keys)

	var out []Action
	for _, a := range keys {
		for range f.Actions[a] {
			out = append(out, a)
		}
	}
	return out
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
